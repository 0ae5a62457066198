package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/core/cache"
	"taskboard/internal/domain"
	"taskboard/pkg/utils"
)

const userValidationTitle = "User Validation Error"

type CreateUserInput struct {
	Name string
	Role domain.Role
}

type UserService struct {
	lookups
	assign *AssignmentService
}

func NewUserService(store domain.Store, assign *AssignmentService, c *cache.Cache, ttl time.Duration, l *zap.Logger) *UserService {
	return &UserService{lookups: lookups{store: store, cache: c, ttl: ttl, log: l.Named("user")}, assign: assign}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	var msgs []string
	if name == "" {
		msgs = append(msgs, "Name is required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		msgs = append(msgs, "Invalid value for role")
	}
	if len(msgs) > 0 {
		return nil, domain.Validation(userValidationTitle, msgs...)
	}

	u := &domain.User{ID: utils.NewID(), Name: name, Role: role}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, domain.Internal("create user failed", err)
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *UserService) List(ctx context.Context, q domain.ListQuery) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx, q)
	if err != nil {
		return nil, domain.Internal("list users failed", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if !utils.ValidID(id) {
		return nil, domain.BadIdentifier("Wrong Id Type")
	}
	u, err := s.user(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.NotFound("User does not exist!")
	}
	return u, nil
}

// Tasks returns the user with assignedTasks resolved to live tasks.
func (s *UserService) Tasks(ctx context.Context, id string) (*domain.UserTasks, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().FindActiveByIDs(ctx, u.AssignedTasks)
	if err != nil {
		return nil, domain.Internal("load assigned tasks failed", err)
	}
	return &domain.UserTasks{
		ID:            u.ID,
		Name:          u.Name,
		Role:          u.Role,
		AssignedTasks: tasks,
		IsDeleted:     u.IsDeleted,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}, nil
}

// Delete soft-deletes a live user. Tasks assigned to the user are unassigned
// in the same unit of work so no live task points at a deleted user.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	if !utils.ValidID(id) {
		return nil, domain.BadIdentifier("Wrong Id Type")
	}
	var (
		deleted *domain.User
		touched = []string{userKey(id)}
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindActive(ctx, id)
		if err != nil {
			return domain.Internal("load user failed", err)
		}
		if u == nil {
			return domain.NotFound("User does not exist!")
		}
		keys, err := s.assign.Release(ctx, tx, u)
		touched = append(touched, keys...)
		if err != nil {
			return domain.Internal("release assigned tasks failed", err)
		}
		if deleted, err = tx.Users().Update(ctx, id, map[string]any{"is_deleted": true}); err != nil {
			return domain.Internal("delete user failed", err)
		}
		if deleted == nil {
			return domain.NotFound("User does not exist!")
		}
		return nil
	})
	s.forget(ctx, touched...)
	if err != nil {
		return nil, err
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return deleted, nil
}

func (s *UserService) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.User, int64, error) {
	users, total, err := s.store.Users().Browse(ctx, q)
	if err != nil {
		return nil, 0, domain.Internal("browse users failed", err)
	}
	return users, total, nil
}
