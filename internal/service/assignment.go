package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/core/cache"
	"taskboard/internal/domain"
	"taskboard/pkg/utils"
)

// AssignmentService is the only writer of task.assignee and of users'
// assignedTasks sets. Each operation touches up to three records; they share
// a transaction when the store provides one.
type AssignmentService struct {
	lookups
}

func NewAssignmentService(store domain.Store, c *cache.Cache, ttl time.Duration, l *zap.Logger) *AssignmentService {
	return &AssignmentService{lookups{store: store, cache: c, ttl: ttl, log: l.Named("assignment")}}
}

// Assign sets the assignee of a task to userID, or clears it when userID is
// empty, keeping the old and new users' assignedTasks in step. The returned
// task has its assignee populated.
func (s *AssignmentService) Assign(ctx context.Context, taskID, userID string) (*domain.TaskView, error) {
	if !utils.ValidID(taskID) {
		return nil, domain.BadIdentifier("Wrong taskId Type")
	}

	var (
		view    *domain.TaskView
		op      string
		prev    string
		touched = []string{taskKey(taskID)}
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		// the row lock serializes concurrent assigns of one task
		task, err := tx.Tasks().LockActive(ctx, taskID)
		if err != nil {
			return domain.Internal("load task failed", err)
		}
		if task == nil {
			return domain.NotFound("Task does not exist!")
		}
		if task.AssigneeID != nil {
			prev = *task.AssigneeID
		}

		var patch map[string]any
		if userID != "" {
			if !utils.ValidID(userID) {
				return domain.BadIdentifier("Wrong userId Type")
			}
			user, err := tx.Users().FindActive(ctx, userID)
			if err != nil {
				return domain.Internal("load user failed", err)
			}
			if user == nil {
				return domain.NotFound("User does not exist!")
			}
			if prev != "" && prev != userID {
				if err := tx.Users().RemoveTask(ctx, prev, taskID); err != nil {
					return domain.Internal("release from previous assignee failed", err)
				}
				touched = append(touched, userKey(prev))
			}
			if err := tx.Users().AddTask(ctx, userID, taskID); err != nil {
				return domain.Internal("add task to assignee failed", err)
			}
			touched = append(touched, userKey(userID))
			patch = map[string]any{"assignee_id": userID}
			op = "assign"
			if prev != "" && prev != userID {
				op = "reassign"
			}
		} else {
			if prev != "" {
				if err := tx.Users().RemoveTask(ctx, prev, taskID); err != nil {
					return domain.Internal("release from previous assignee failed", err)
				}
				touched = append(touched, userKey(prev))
			}
			patch = map[string]any{"assignee_id": nil}
			op = "unassign"
		}

		updated, err := tx.Tasks().Update(ctx, taskID, patch)
		if err != nil {
			return domain.Internal("update task failed", err)
		}
		if updated == nil {
			return domain.NotFound("Task does not exist!")
		}
		view = &domain.TaskView{Task: *updated}
		if userID != "" {
			if view.Assignee, err = tx.Users().FindActive(ctx, userID); err != nil {
				return domain.Internal("load assignee failed", err)
			}
		}
		return nil
	})
	// partial writes may have landed without a transaction
	s.forget(ctx, touched...)
	if err != nil {
		return nil, err
	}

	assignments.WithLabelValues(op).Inc()
	s.log.Info("task assignment changed",
		zap.String("op", op),
		zap.String("task_id", taskID),
		zap.String("from", prev),
		zap.String("to", userID),
	)
	return view, nil
}

// Release clears userID as assignee from every task it holds and empties its
// assignedTasks set. It runs inside the caller's store so it can share the
// caller's transaction.
func (s *AssignmentService) Release(ctx context.Context, tx domain.Store, u *domain.User) ([]string, error) {
	touched := []string{userKey(u.ID)}
	for _, taskID := range u.AssignedTasks {
		task, err := tx.Tasks().LockActive(ctx, taskID)
		if err != nil {
			return touched, err
		}
		if task != nil && task.AssigneeID != nil && *task.AssigneeID == u.ID {
			if _, err := tx.Tasks().Update(ctx, taskID, map[string]any{"assignee_id": nil}); err != nil {
				return touched, err
			}
			touched = append(touched, taskKey(taskID))
		}
		if err := tx.Users().RemoveTask(ctx, u.ID, taskID); err != nil {
			return touched, err
		}
	}
	if len(u.AssignedTasks) > 0 {
		assignments.WithLabelValues("release").Add(float64(len(u.AssignedTasks)))
		s.log.Info("user released from tasks", zap.String("user_id", u.ID), zap.Strings("task_ids", u.AssignedTasks))
	}
	return touched, nil
}
