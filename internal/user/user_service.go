package user

import (
	"context"
	"errors"

	usererrors "github.com/ankitsharma97/leaveManagement/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// managerChainLimit bounds the walk-up when checking for cycles so a
// corrupted chain can never spin forever.
const managerChainLimit = 100

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	UpdateAssignment(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	// Directory listings are hot and identical across callers; collapse
	// concurrent reads into a single repository query.
	v, err, _ := s.sf.Do("users:all", func() (any, error) {
		users, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(users), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]UserResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateAssignment(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	role := Role(req.Role)
	if !role.Valid() {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		mid, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidManagerID
		}
		if err := ValidateManagerAssignment(ctx, s.repo, u.ID, mid); err != nil {
			return UserResponse{}, err
		}
		managerID = &mid
	}

	u.Role = role
	u.ManagerID = managerID
	u.Manager = nil

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user assignment persist failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return UserResponse{}, err
	}
	s.logger.Info("user assignment updated",
		zap.String("user_id", id),
		zap.String("role", string(role)),
	)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*updated), nil
}

// ValidateManagerAssignment rejects self-management and any assignment
// that would close a cycle in the manager chain. The chain from managerID
// upward is walked and must never reach subjectID.
func ValidateManagerAssignment(ctx context.Context, repo Repository, subjectID, managerID uuid.UUID) error {
	if subjectID == managerID {
		return usererrors.ErrSelfManagement
	}

	current := managerID
	for i := 0; i < managerChainLimit; i++ {
		m, err := repo.FindByID(ctx, current.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usererrors.ErrManagerNotFound
			}
			return err
		}
		if m.ManagerID == nil {
			return nil
		}
		if *m.ManagerID == subjectID {
			return usererrors.ErrManagerCycle
		}
		current = *m.ManagerID
	}
	return usererrors.ErrManagerCycle
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
	if u.Manager != nil {
		v := u.Manager.Username
		resp.Manager = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
