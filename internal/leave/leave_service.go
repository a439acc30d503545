package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ankitsharma97/leaveManagement/internal/audit"
	"github.com/ankitsharma97/leaveManagement/internal/events"
	leaveerrors "github.com/ankitsharma97/leaveManagement/internal/leave/errors"
	"github.com/ankitsharma97/leaveManagement/internal/messaging/kafka"
	"github.com/ankitsharma97/leaveManagement/internal/shared/apperror"
	"github.com/ankitsharma97/leaveManagement/internal/shared/contextutil"
	"github.com/ankitsharma97/leaveManagement/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Submit(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Cancel(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audits audit.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, audits audit.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, audits: audits, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actor.ID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := validateDates(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: actor.ID,
		StartDate:  startDate,
		EndDate:    endDate,
		LeaveType:  req.LeaveType,
		Reason:     req.Reason,
		Status:     StatusDraft,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.ID.String()),
	)

	return s.buildResponse(ctx, l.ID.String())
}

func (s *service) GetAll(ctx context.Context, actor Actor) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllVisible(ctx, actor)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(leaves))
	for i, l := range leaves {
		ids[i] = l.ID.String()
	}
	transitions, err := s.audits.ListByLeaveRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[uuid.UUID][]audit.Transition, len(leaves))
	for _, t := range transitions {
		byRequest[t.LeaveRequestID] = append(byRequest[t.LeaveRequestID], t)
	}

	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l, byRequest[l.ID])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDVisible(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	transitions, err := s.audits.ListByLeaveRequest(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, transitions), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDVisible(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !CanModify(actor, l.EmployeeID) {
		return LeaveResponse{}, apperror.ErrForbidden
	}

	startDate, endDate, err := validateDates(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	// Non-status fields only; owner and status are untouchable here.
	l.StartDate = startDate
	l.EndDate = endDate
	l.LeaveType = req.LeaveType
	l.Reason = req.Reason
	l.Employee = nil

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	return s.buildResponse(ctx, id)
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDVisible(ctx, actor, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if !CanModify(actor, l.EmployeeID) {
		return apperror.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Submit(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, ActionSubmit)
}

func (s *service) Approve(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, ActionApprove)
}

func (s *service) Reject(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, ActionReject)
}

func (s *service) Cancel(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	return s.transition(ctx, actor, id, ActionCancel)
}

// transition runs one state-machine step as a single atomic unit: lock
// the row, decide, write the new status, append exactly one audit
// record and one outbox event, commit. A serialization conflict is
// retried once against the fresh status; the retry then fails
// deterministically if the first writer already consumed the precondition.
func (s *service) transition(ctx context.Context, actor Actor, id string, action Action) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	s.logger.Debug("transition requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("action", string(action)),
	)

	err := s.applyTransition(ctx, actor, id, action)
	if isSerializationFailure(err) {
		s.logger.Warn("transition conflict, retrying once",
			zap.String("leave_id", id),
			zap.String("action", string(action)),
		)
		err = s.applyTransition(ctx, actor, id, action)
	}
	if err != nil {
		return LeaveResponse{}, err
	}

	return s.buildResponse(ctx, id)
}

func (s *service) applyTransition(ctx context.Context, actor Actor, id string, action Action) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	locked, err := qtx.LockForTransition(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	// Ownership of submit belongs to the access layer, not the machine.
	if action == ActionSubmit && locked.EmployeeID != actor.ID {
		return leaveerrors.ErrNotRequestOwner
	}

	decision, err := Decide(locked.Status, action, actor, locked.EmployeeID, locked.OwnerManagerID)
	if err != nil {
		s.logger.Warn("transition refused",
			zap.String("leave_id", id),
			zap.String("from_status", string(locked.Status)),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return err
	}

	if err := qtx.UpdateStatus(ctx, id, decision.Next); err != nil {
		return err
	}

	actorID := actor.ID
	record := &audit.Transition{
		ID:             uuid.New(),
		LeaveRequestID: locked.ID,
		Action:         decision.Audit,
		ByID:           &actorID,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.audits.WithTx(tx).Append(ctx, record); err != nil {
		return err
	}

	payload, err := json.Marshal(events.LeaveTransitionedEvent{
		LeaveRequestID: locked.ID.String(),
		Action:         decision.Audit,
		FromStatus:     string(locked.Status),
		ToStatus:       string(decision.Next),
		ActorID:        actor.ID.String(),
		OccurredAt:     record.Timestamp,
	})
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   locked.ID,
		EventType:     events.LeaveTransitionedEventType,
		Topic:         events.LeaveTransitionsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("transition success",
		zap.String("leave_id", id),
		zap.String("from_status", string(locked.Status)),
		zap.String("to_status", string(decision.Next)),
		zap.String("audit_action", decision.Audit),
	)
	return nil
}

func (s *service) buildResponse(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	transitions, err := s.audits.ListByLeaveRequest(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, transitions), nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func validateDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return time.Time{}, time.Time{}, leaveerrors.ErrStartDateInPast
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest, transitions []audit.Transition) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		LeaveType:   l.LeaveType,
		Reason:      l.Reason,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.UTC().Format(time.RFC3339),
		Transitions: audit.MapToListResponse(transitions),
	}
	resp.Employee = user.UserResponse{ID: l.EmployeeID.String()}
	if l.Employee != nil {
		resp.Employee.Username = l.Employee.Username
		resp.Employee.Email = l.Employee.Email
		resp.Employee.Role = l.Employee.Role
		if l.Employee.Manager != nil {
			v := l.Employee.Manager.Username
			resp.Employee.Manager = &v
		}
	}
	return resp
}
