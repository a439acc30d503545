package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, t *Transition) error
	ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]Transition, error)
	ListByLeaveRequests(ctx context.Context, leaveRequestIDs []string) ([]Transition, error)
	ListAll(ctx context.Context) ([]Transition, error)
	FindByID(ctx context.Context, id string) (*Transition, error)
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

// Append inserts through the raw connection so it can join the caller's
// transaction; appending a record is always part of a transition commit.
func (r *repository) Append(ctx context.Context, t *Transition) error {
	query := `
        INSERT INTO leave_transitions (id, leave_request_id, action, by_id, "timestamp")
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		t.ID, t.LeaveRequestID, t.Action, t.ByID, t.Timestamp,
	)
	return err
}

// ListByLeaveRequest returns a request's history oldest-first; creation
// order is the canonical history order.
func (r *repository) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]Transition, error) {
	var transitions []Transition
	err := r.db.WithContext(ctx).
		Preload("By").
		Where("leave_request_id = ?", leaveRequestID).
		Order(`"timestamp" ASC`).
		Find(&transitions).Error
	return transitions, err
}

// ListByLeaveRequests batch-loads history for several requests at once
// so list views avoid one query per row.
func (r *repository) ListByLeaveRequests(ctx context.Context, leaveRequestIDs []string) ([]Transition, error) {
	if len(leaveRequestIDs) == 0 {
		return nil, nil
	}
	var transitions []Transition
	err := r.db.WithContext(ctx).
		Preload("By").
		Where("leave_request_id IN ?", leaveRequestIDs).
		Order(`"timestamp" ASC`).
		Find(&transitions).Error
	return transitions, err
}

// ListAll returns every record oldest-first, same ordering contract as
// the per-request view.
func (r *repository) ListAll(ctx context.Context) ([]Transition, error) {
	var transitions []Transition
	err := r.db.WithContext(ctx).
		Preload("By").
		Order(`"timestamp" ASC`).
		Find(&transitions).Error
	return transitions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Transition, error) {
	var t Transition
	err := r.db.WithContext(ctx).
		Preload("By").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.stdDB
}
