package audit

import (
	"context"
	"errors"

	auditerrors "github.com/ankitsharma97/leaveManagement/internal/audit/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]TransitionResponse, error)
	GetByID(ctx context.Context, id string) (TransitionResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]TransitionResponse, error) {
	transitions, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("list transitions failed", zap.Error(err))
		return nil, err
	}

	resp := make([]TransitionResponse, len(transitions))
	for i, t := range transitions {
		resp[i] = mapToAuditResponse(t)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (TransitionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TransitionResponse{}, auditerrors.ErrInvalidTransitionID
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransitionResponse{}, auditerrors.ErrTransitionNotFound
		}
		return TransitionResponse{}, err
	}
	return mapToAuditResponse(*t), nil
}
