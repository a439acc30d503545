package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ankitsharma97/leaveManagement/internal/audit"
	"github.com/ankitsharma97/leaveManagement/internal/events"
	"github.com/ankitsharma97/leaveManagement/internal/leave"
	leaveerrors "github.com/ankitsharma97/leaveManagement/internal/leave/errors"
	"github.com/ankitsharma97/leaveManagement/internal/messaging/kafka"
	"github.com/ankitsharma97/leaveManagement/internal/shared/apperror"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	withTxFn            func(tx *sql.Tx) leave.Repository
	createFn            func(ctx context.Context, l *leave.LeaveRequest) error
	findAllVisibleFn    func(ctx context.Context, viewer leave.Actor) ([]leave.LeaveRequest, error)
	findByIDVisibleFn   func(ctx context.Context, viewer leave.Actor, id string) (*leave.LeaveRequest, error)
	findByIDFn          func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	updateFn            func(ctx context.Context, l *leave.LeaveRequest) error
	deleteFn            func(ctx context.Context, id string) error
	lockForTransitionFn func(ctx context.Context, id string) (*leave.LockedRequest, error)
	updateStatusFn      func(ctx context.Context, id string, status leave.Status) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllVisible(ctx context.Context, viewer leave.Actor) ([]leave.LeaveRequest, error) {
	if f.findAllVisibleFn != nil {
		return f.findAllVisibleFn(ctx, viewer)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDVisible(ctx context.Context, viewer leave.Actor, id string) (*leave.LeaveRequest, error) {
	if f.findByIDVisibleFn != nil {
		return f.findByIDVisibleFn(ctx, viewer, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return &leave.LeaveRequest{ID: uuid.MustParse(id)}, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) LockForTransition(ctx context.Context, id string) (*leave.LockedRequest, error) {
	if f.lockForTransitionFn != nil {
		return f.lockForTransitionFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeAuditRepository struct {
	appendFn               func(ctx context.Context, tr *audit.Transition) error
	listByLeaveRequestFn   func(ctx context.Context, leaveRequestID string) ([]audit.Transition, error)
	listByLeaveRequestsFn  func(ctx context.Context, leaveRequestIDs []string) ([]audit.Transition, error)
	listAllFn              func(ctx context.Context) ([]audit.Transition, error)
	findByIDFn             func(ctx context.Context, id string) (*audit.Transition, error)
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Append(ctx context.Context, tr *audit.Transition) error {
	if f.appendFn != nil {
		return f.appendFn(ctx, tr)
	}
	return nil
}

func (f *fakeAuditRepository) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]audit.Transition, error) {
	if f.listByLeaveRequestFn != nil {
		return f.listByLeaveRequestFn(ctx, leaveRequestID)
	}
	return nil, nil
}

func (f *fakeAuditRepository) ListByLeaveRequests(ctx context.Context, leaveRequestIDs []string) ([]audit.Transition, error) {
	if f.listByLeaveRequestsFn != nil {
		return f.listByLeaveRequestsFn(ctx, leaveRequestIDs)
	}
	return nil, nil
}

func (f *fakeAuditRepository) ListAll(ctx context.Context) ([]audit.Transition, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeAuditRepository) FindByID(ctx context.Context, id string) (*audit.Transition, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	audits  *fakeAuditRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	audits := &fakeAuditRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, audits, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		audits:  audits,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	actor := leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			StartDate: futureDate(7),
			EndDate:   futureDate(9),
			LeaveType: leave.LeaveTypeCasual,
			Reason:    "Family event",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, actor.ID, l.EmployeeID)
			assert.Equal(t, leave.StatusDraft, l.Status)
			assert.Equal(t, leave.LeaveTypeCasual, l.LeaveType)
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:         uuid.MustParse(id),
				EmployeeID: actor.ID,
				StartDate:  time.Now().UTC().AddDate(0, 0, 7),
				EndDate:    time.Now().UTC().AddDate(0, 0, 9),
				LeaveType:  leave.LeaveTypeCasual,
				Reason:     "Family event",
				Status:     leave.StatusDraft,
			}, nil
		}

		resp, err := deps.service.Create(ctx, actor, req)

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusDraft), resp.Status)
		assert.Equal(t, actor.ID.String(), resp.Employee.ID)
		assert.Empty(t, resp.Transitions)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			StartDate: futureDate(9),
			EndDate:   futureDate(7),
			LeaveType: leave.LeaveTypeSick,
			Reason:    "x",
		}

		_, err := deps.service.Create(ctx, actor, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative start in past", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			StartDate: "2020-01-01",
			EndDate:   futureDate(2),
			LeaveType: leave.LeaveTypeSick,
			Reason:    "x",
		}

		_, err := deps.service.Create(ctx, actor, req)
		assert.ErrorIs(t, err, leaveerrors.ErrStartDateInPast)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			StartDate: "03/01/2026",
			EndDate:   futureDate(2),
			LeaveType: leave.LeaveTypePrivilege,
			Reason:    "x",
		}

		_, err := deps.service.Create(ctx, actor, req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	actor := leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, actor, "not-a-uuid")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})

	t.Run("success includes history oldest first", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDVisibleFn = func(ctx context.Context, viewer leave.Actor, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{
				ID:         id,
				EmployeeID: actor.ID,
				Status:     leave.StatusApprovedManager,
				Employee:   &leave.Requester{ID: actor.ID, Username: "asha", Role: string(user.RoleEmployee)},
			}, nil
		}
		deps.audits.listByLeaveRequestFn = func(ctx context.Context, leaveRequestID string) ([]audit.Transition, error) {
			return []audit.Transition{
				{ID: uuid.New(), LeaveRequestID: id, Action: leave.AuditSubmitted, Timestamp: time.Now().Add(-time.Hour)},
				{ID: uuid.New(), LeaveRequestID: id, Action: leave.AuditApprovedManager, Timestamp: time.Now()},
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, actor, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "asha", resp.Employee.Username)
		assert.Len(t, resp.Transitions, 2)
		assert.Equal(t, leave.AuditSubmitted, resp.Transitions[0].Action)
		assert.Equal(t, leave.AuditApprovedManager, resp.Transitions[1].Action)
	})
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	owner := leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}
	managerID := uuid.New()

	t.Run("success writes status, audit and outbox atomically", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			assert.Equal(t, id.String(), targetID)
			return &leave.LockedRequest{
				ID:             id,
				EmployeeID:     owner.ID,
				Status:         leave.StatusDraft,
				OwnerManagerID: &managerID,
			}, nil
		}

		statusUpdated := false
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			statusUpdated = true
			assert.Equal(t, leave.StatusSubmitted, status)
			return nil
		}

		var appended *audit.Transition
		deps.audits.appendFn = func(ctx context.Context, tr *audit.Transition) error {
			appended = tr
			return nil
		}

		var published kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = event
			return nil
		}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, EmployeeID: owner.ID, Status: leave.StatusSubmitted}, nil
		}
		deps.audits.listByLeaveRequestFn = func(ctx context.Context, leaveRequestID string) ([]audit.Transition, error) {
			return []audit.Transition{*appended}, nil
		}

		resp, err := deps.service.Submit(ctx, owner, id.String())

		assert.NoError(t, err)
		assert.True(t, statusUpdated)
		assert.Equal(t, string(leave.StatusSubmitted), resp.Status)

		assert.NotNil(t, appended)
		assert.Equal(t, leave.AuditSubmitted, appended.Action)
		assert.Equal(t, id, appended.LeaveRequestID)
		assert.NotNil(t, appended.ByID)
		assert.Equal(t, owner.ID, *appended.ByID)

		assert.Equal(t, events.LeaveTransitionsTopic, published.Topic)
		assert.Equal(t, events.LeaveTransitionedEventType, published.EventType)
		var payload events.LeaveTransitionedEvent
		assert.NoError(t, json.Unmarshal(published.Payload, &payload))
		assert.Equal(t, string(leave.StatusDraft), payload.FromStatus)
		assert.Equal(t, string(leave.StatusSubmitted), payload.ToStatus)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-owner cannot submit", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return &leave.LockedRequest{ID: id, EmployeeID: uuid.New(), Status: leave.StatusDraft}, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			t.Fatal("status must not change")
			return nil
		}

		_, err := deps.service.Submit(ctx, owner, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return nil, sql.ErrNoRows
		}

		_, err := deps.service.Submit(ctx, owner, uuid.New().String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	managerID := uuid.New()

	t.Run("success manager approves direct report", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return &leave.LockedRequest{
				ID:             id,
				EmployeeID:     ownerID,
				Status:         leave.StatusSubmitted,
				OwnerManagerID: &managerID,
			}, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			assert.Equal(t, leave.StatusApprovedManager, status)
			return nil
		}
		deps.audits.appendFn = func(ctx context.Context, tr *audit.Transition) error {
			assert.Equal(t, leave.AuditApprovedManager, tr.Action)
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, EmployeeID: ownerID, Status: leave.StatusApprovedManager}, nil
		}

		resp, err := deps.service.Approve(ctx, leave.Actor{ID: managerID, Role: user.RoleManager}, id.String())

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusApprovedManager), resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unrelated manager gets authorization error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return &leave.LockedRequest{
				ID:             id,
				EmployeeID:     ownerID,
				Status:         leave.StatusSubmitted,
				OwnerManagerID: &managerID,
			}, nil
		}

		_, err := deps.service.Approve(ctx, leave.Actor{ID: uuid.New(), Role: user.RoleManager}, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrApprovalNotAllowed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative second approve fails on fresh status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		// The first approver already committed; the lock re-read sees
		// approved_manager, so the same manager cannot approve again.
		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return &leave.LockedRequest{
				ID:             id,
				EmployeeID:     ownerID,
				Status:         leave.StatusApprovedManager,
				OwnerManagerID: &managerID,
			}, nil
		}

		_, err := deps.service.Approve(ctx, leave.Actor{ID: managerID, Role: user.RoleManager}, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusForApproval)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_TransitionConflict(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	managerID := uuid.New()
	manager := leave.Actor{ID: managerID, Role: user.RoleManager}

	lockedSubmitted := func(id uuid.UUID) *leave.LockedRequest {
		return &leave.LockedRequest{
			ID:             id,
			EmployeeID:     ownerID,
			Status:         leave.StatusSubmitted,
			OwnerManagerID: &managerID,
		}
	}

	t.Run("serialization failure retried once against fresh status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		expectTx(t, deps.sqlMock, false)

		// Attempt one loses the race: the write hits a serialization
		// failure. Attempt two re-locks and sees the winner's status,
		// so the machine refuses instead of double-approving.
		lockCalls := 0
		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			lockCalls++
			if lockCalls == 1 {
				return lockedSubmitted(id), nil
			}
			fresh := lockedSubmitted(id)
			fresh.Status = leave.StatusApprovedManager
			return fresh, nil
		}

		updateCalls := 0
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			updateCalls++
			return &pgconn.PgError{Code: "40001"}
		}

		_, err := deps.service.Approve(ctx, manager, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusForApproval)
		assert.Equal(t, 2, lockCalls)
		assert.Equal(t, 1, updateCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deadlock retry succeeds when precondition still holds", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)
		expectTx(t, deps.sqlMock, true)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return lockedSubmitted(id), nil
		}

		updateCalls := 0
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			updateCalls++
			if updateCalls == 1 {
				return &pgconn.PgError{Code: "40P01"}
			}
			assert.Equal(t, leave.StatusApprovedManager, status)
			return nil
		}

		auditCalls := 0
		deps.audits.appendFn = func(ctx context.Context, tr *audit.Transition) error {
			auditCalls++
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, EmployeeID: ownerID, Status: leave.StatusApprovedManager}, nil
		}

		resp, err := deps.service.Approve(ctx, manager, id.String())

		assert.NoError(t, err)
		assert.Equal(t, string(leave.StatusApprovedManager), resp.Status)
		assert.Equal(t, 2, updateCalls)
		assert.Equal(t, 1, auditCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-retryable error surfaces without retry", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		lockCalls := 0
		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			lockCalls++
			return lockedSubmitted(id), nil
		}

		boom := errors.New("write failed")
		deps.repo.updateStatusFn = func(ctx context.Context, targetID string, status leave.Status) error {
			return boom
		}

		_, err := deps.service.Approve(ctx, manager, id.String())

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, lockCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	owner := leave.Actor{ID: uuid.New(), Role: user.RoleEmployee}

	t.Run("negative terminal request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		deps.repo.lockForTransitionFn = func(ctx context.Context, targetID string) (*leave.LockedRequest, error) {
			return &leave.LockedRequest{ID: id, EmployeeID: owner.ID, Status: leave.StatusApprovedHR}, nil
		}

		_, err := deps.service.Cancel(ctx, owner, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrCannotCancel)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("success owner deletes", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDVisibleFn = func(ctx context.Context, viewer leave.Actor, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, EmployeeID: ownerID, Status: leave.StatusDraft}, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			deleted = true
			assert.Equal(t, id.String(), targetID)
			return nil
		}

		err := deps.service.Delete(ctx, leave.Actor{ID: ownerID, Role: user.RoleEmployee}, id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative manager cannot delete a report's request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDVisibleFn = func(ctx context.Context, viewer leave.Actor, targetID string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: id, EmployeeID: ownerID, Status: leave.StatusSubmitted}, nil
		}

		err := deps.service.Delete(ctx, leave.Actor{ID: uuid.New(), Role: user.RoleManager}, id.String())

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	actor := leave.Actor{ID: uuid.New(), Role: user.RoleHR}

	t.Run("success batches history across requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		firstID := uuid.New()
		secondID := uuid.New()
		deps.repo.findAllVisibleFn = func(ctx context.Context, viewer leave.Actor) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{ID: firstID, EmployeeID: uuid.New(), Status: leave.StatusSubmitted},
				{ID: secondID, EmployeeID: uuid.New(), Status: leave.StatusDraft},
			}, nil
		}
		deps.audits.listByLeaveRequestsFn = func(ctx context.Context, leaveRequestIDs []string) ([]audit.Transition, error) {
			assert.ElementsMatch(t, []string{firstID.String(), secondID.String()}, leaveRequestIDs)
			return []audit.Transition{
				{ID: uuid.New(), LeaveRequestID: firstID, Action: leave.AuditSubmitted, Timestamp: time.Now()},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, actor)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Len(t, resp[0].Transitions, 1)
		assert.Empty(t, resp[1].Transitions)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllVisibleFn = func(ctx context.Context, viewer leave.Actor) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, actor)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
