package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindActive returns nil, nil when the task is missing or soft-deleted.
func (r *TaskRepo) FindActive(ctx context.Context, id string) (*domain.Task, error) {
	return r.findActive(r.db.WithContext(ctx), id)
}

// LockActive selects the task FOR UPDATE. Dialects without row locks
// (sqlite) drop the clause.
func (r *TaskRepo) LockActive(ctx context.Context, id string) (*domain.Task, error) {
	return r.findActive(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *TaskRepo) findActive(db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := applyList(r.db.WithContext(ctx).Model(&domain.Task{}), q).Find(&tasks).Error
	return tasks, err
}

// Update applies patch to the live task with id and returns the new row,
// or nil, nil when there is no such live task.
func (r *TaskRepo) Update(ctx context.Context, id string, patch map[string]any) (*domain.Task, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(patch)
	if res.Error != nil {
		return nil, res.Error
	}
	// MySQL counts changed rows, not matched ones, so 0 can also mean a
	// same-value write to a live row. Only then is the live filter needed.
	read := r.db.WithContext(ctx).Where("id = ?", id)
	if res.RowsAffected == 0 {
		read = read.Where("is_deleted = ?", false)
	}
	var t domain.Task
	err := read.First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) FindActiveByIDs(ctx context.Context, ids []string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepo) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.Task, int64, error) {
	tx := applyBrowse(r.db.WithContext(ctx).Model(&domain.Task{}), q, "name", "description")
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	tasks := []domain.Task{}
	if err := tx.Order("created_at DESC").Offset(q.Offset).Limit(q.Limit).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}
