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

const taskValidationTitle = "Task Validation Error"

type CreateTaskInput struct {
	Name        string
	Description string
	Status      domain.TaskStatus
}

type TaskService struct {
	lookups
}

func NewTaskService(store domain.Store, c *cache.Cache, ttl time.Duration, l *zap.Logger) *TaskService {
	return &TaskService{lookups{store: store, cache: c, ttl: ttl, log: l.Named("task")}}
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	var msgs []string
	if name == "" {
		msgs = append(msgs, "Name is required")
	}
	if desc == "" {
		msgs = append(msgs, "Description is required")
	}
	if in.Status != domain.StatusUnset && !in.Status.Valid() {
		msgs = append(msgs, "Invalid value for status")
	}
	if len(msgs) > 0 {
		return nil, domain.Validation(taskValidationTitle, msgs...)
	}

	t := &domain.Task{ID: utils.NewID(), Name: name, Description: desc, Status: in.Status}
	if err := s.store.Tasks().Create(ctx, t); err != nil {
		return nil, domain.Internal("create task failed", err)
	}
	s.log.Info("task created", zap.String("task_id", t.ID))
	return t, nil
}

func (s *TaskService) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	tasks, err := s.store.Tasks().List(ctx, q)
	if err != nil {
		return nil, domain.Internal("list tasks failed", err)
	}
	return tasks, nil
}

// Get returns a live task with its assignee populated.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.TaskView, error) {
	if !utils.ValidID(id) {
		return nil, domain.BadIdentifier("Wrong Id Type")
	}
	t, err := s.task(ctx, id)
	if err != nil {
		return nil, domain.Internal("load task failed", err)
	}
	if t == nil {
		return nil, domain.NotFound("Task does not exist!")
	}
	return s.view(ctx, t)
}

// Delete soft-deletes a live task and returns the deleted record.
func (s *TaskService) Delete(ctx context.Context, id string) (*domain.Task, error) {
	if !utils.ValidID(id) {
		return nil, domain.BadIdentifier("Wrong Id Type")
	}
	t, err := s.store.Tasks().Update(ctx, id, map[string]any{"is_deleted": true})
	if err != nil {
		return nil, domain.Internal("delete task failed", err)
	}
	if t == nil {
		return nil, domain.NotFound("Task does not exist!")
	}
	s.forget(ctx, taskKey(id))
	s.log.Info("task deleted", zap.String("task_id", id))
	return t, nil
}

// Update applies a partial update under the status rule: a done task only
// accepts archive, an archived task only accepts archive again. The rule is
// checked even when the update carries no status.
func (s *TaskService) Update(ctx context.Context, id string, in domain.TaskUpdate) (*domain.Task, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status != domain.StatusUnset && !in.Status.Valid() {
		return nil, domain.Validation(taskValidationTitle, "Invalid value for status")
	}
	if !utils.ValidID(id) {
		return nil, domain.BadIdentifier("Wrong Id Type")
	}
	// read through the store, not the cache: the rule needs the current status
	t, err := s.store.Tasks().FindActive(ctx, id)
	if err != nil {
		return nil, domain.Internal("load task failed", err)
	}
	if t == nil {
		return nil, domain.NotFound("Task does not exist!")
	}
	if in.Empty() {
		return nil, domain.InvalidArgument("Missing updated data")
	}
	if err := domain.CheckTransition(t.Status, in.Status); err != nil {
		taskTransitionsRejected.WithLabelValues(statusLabel(string(t.Status))).Inc()
		s.log.Debug("task update rejected",
			zap.String("task_id", id),
			zap.String("from", string(t.Status)),
			zap.String("to", string(in.Status)),
		)
		return nil, err
	}

	patch := map[string]any{}
	if in.Name != "" {
		patch["name"] = in.Name
	}
	if in.Description != "" {
		patch["description"] = in.Description
	}
	if in.Status != domain.StatusUnset {
		patch["status"] = in.Status
	}
	updated, err := s.store.Tasks().Update(ctx, id, patch)
	if err != nil {
		return nil, domain.Internal("update task failed", err)
	}
	if updated == nil {
		return nil, domain.NotFound("Task does not exist!")
	}
	s.forget(ctx, taskKey(id))

	if in.Status != domain.StatusUnset && in.Status != t.Status {
		taskTransitions.WithLabelValues(statusLabel(string(t.Status)), string(in.Status)).Inc()
		s.log.Info("task status changed",
			zap.String("task_id", id),
			zap.String("from", string(t.Status)),
			zap.String("to", string(in.Status)),
		)
	}
	return updated, nil
}

func (s *TaskService) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.Task, int64, error) {
	tasks, total, err := s.store.Tasks().Browse(ctx, q)
	if err != nil {
		return nil, 0, domain.Internal("browse tasks failed", err)
	}
	return tasks, total, nil
}
