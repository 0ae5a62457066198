package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return err
	}
	if u.AssignedTasks == nil {
		u.AssignedTasks = []string{}
	}
	return nil
}

// FindActive returns nil, nil when the user is missing or soft-deleted.
func (r *UserRepo) FindActive(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAssigned(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.User, error) {
	users := []domain.User{}
	if err := applyList(r.db.WithContext(ctx).Model(&domain.User{}), q).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, r.loadAssignedMany(ctx, users)
}

func (r *UserRepo) Update(ctx context.Context, id string, patch map[string]any) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
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
	var u domain.User
	err := read.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, r.loadAssigned(ctx, &u)
}

// AddTask inserts taskID into the user's assignedTasks set; repeats are no-ops.
func (r *UserRepo) AddTask(ctx context.Context, userID, taskID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Assignment{UserID: userID, TaskID: taskID}).Error
}

// RemoveTask pulls taskID from the user's assignedTasks set.
func (r *UserRepo) RemoveTask(ctx context.Context, userID, taskID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Delete(&domain.Assignment{}).Error
}

func (r *UserRepo) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.User, int64, error) {
	tx := applyBrowse(r.db.WithContext(ctx).Model(&domain.User{}), q, "name")
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := []domain.User{}
	if err := tx.Order("created_at DESC").Offset(q.Offset).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, r.loadAssignedMany(ctx, users)
}

func (r *UserRepo) loadAssigned(ctx context.Context, u *domain.User) error {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&domain.Assignment{}).
		Where("user_id = ?", u.ID).
		Order("created_at ASC").
		Pluck("task_id", &ids).Error
	u.AssignedTasks = ids
	return err
}

func (r *UserRepo) loadAssignedMany(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	idx := make(map[string]int, len(users))
	ids := make([]string, len(users))
	for i := range users {
		users[i].AssignedTasks = []string{}
		idx[users[i].ID] = i
		ids[i] = users[i].ID
	}
	var rows []domain.Assignment
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Order("created_at ASC").Find(&rows).Error; err != nil {
		return err
	}
	for _, a := range rows {
		if i, ok := idx[a.UserID]; ok {
			users[i].AssignedTasks = append(users[i].AssignedTasks, a.TaskID)
		}
	}
	return nil
}
