package leave

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllVisible(ctx context.Context, viewer Actor) ([]LeaveRequest, error)
	FindByIDVisible(ctx context.Context, viewer Actor, id string) (*LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	LockForTransition(ctx context.Context, id string) (*LockedRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// LockedRequest is the row image read under FOR UPDATE: exactly the
// fields the state machine needs to decide a transition.
type LockedRequest struct {
	ID             uuid.UUID
	EmployeeID     uuid.UUID
	Status         Status
	OwnerManagerID *uuid.UUID
}

type repository struct {
	db    *gorm.DB
	stdDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, stdDB *sql.DB) Repository {
	return &repository{db: db, stdDB: stdDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, stdDB: r.stdDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllVisible(ctx context.Context, viewer Actor) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(Scope(viewer)).
		Preload("Employee").
		Preload("Employee.Manager").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDVisible(ctx context.Context, viewer Actor, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(Scope(viewer)).
		Preload("Employee").
		Preload("Employee.Manager").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Employee.Manager").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Delete removes the request row; the transition trail follows via the
// ON DELETE CASCADE constraint installed at migration time.
func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.execer().ExecContext(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	return err
}

// LockForTransition reads the request row under FOR UPDATE so a
// concurrent transition blocks until this transaction finishes, then
// re-evaluates against the committed status. The owner's manager link
// is joined in for the machine's relationship check.
func (r *repository) LockForTransition(ctx context.Context, id string) (*LockedRequest, error) {
	query := `
SELECT l.id, l.employee_id, l.status, u.manager_id
FROM leave_requests l
JOIN users u ON u.id = l.employee_id
WHERE l.id = $1
FOR UPDATE OF l
`
	var (
		locked    LockedRequest
		managerID sql.NullString
	)
	row := r.execer().QueryRowContext(ctx, query, id)
	if err := row.Scan(&locked.ID, &locked.EmployeeID, &locked.Status, &managerID); err != nil {
		return nil, err
	}
	if managerID.Valid {
		mid, err := uuid.Parse(managerID.String)
		if err != nil {
			return nil, err
		}
		locked.OwnerManagerID = &mid
	}
	return &locked, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query := `UPDATE leave_requests SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, id, status)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.stdDB
}
