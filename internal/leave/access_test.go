package leave_test

import (
	"testing"

	"github.com/ankitsharma97/leaveManagement/internal/leave"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("hr sees everything", func(t *testing.T) {
		hr := leave.Actor{ID: uuid.New(), Role: user.RoleHR}
		assert.True(t, leave.CanView(hr, ownerID, &managerID))
	})

	t.Run("owner sees own request", func(t *testing.T) {
		owner := leave.Actor{ID: ownerID, Role: user.RoleEmployee}
		assert.True(t, leave.CanView(owner, ownerID, &managerID))
	})

	t.Run("employee cannot see a peer's request", func(t *testing.T) {
		peer := leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}
		assert.False(t, leave.CanView(peer, ownerID, &managerID))
	})

	t.Run("manager sees direct report's request", func(t *testing.T) {
		manager := leave.Actor{ID: managerID, Role: user.RoleManager}
		assert.True(t, leave.CanView(manager, ownerID, &managerID))
	})

	t.Run("manager cannot see unrelated request", func(t *testing.T) {
		other := leave.Actor{ID: uuid.New(), Role: user.RoleManager}
		assert.False(t, leave.CanView(other, ownerID, &managerID))
	})

	t.Run("manager sees own request regardless of chain", func(t *testing.T) {
		manager := leave.Actor{ID: managerID, Role: user.RoleManager}
		assert.True(t, leave.CanView(manager, managerID, nil))
	})
}

func TestCanModify(t *testing.T) {
	ownerID := uuid.New()

	assert.True(t, leave.CanModify(leave.Actor{ID: ownerID, Role: user.RoleEmployee}, ownerID))
	assert.True(t, leave.CanModify(leave.Actor{ID: uuid.New(), Role: user.RoleHR}, ownerID))
	assert.False(t, leave.CanModify(leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}, ownerID))
	assert.False(t, leave.CanModify(leave.Actor{ID: uuid.New(), Role: user.RoleManager}, ownerID))
}
