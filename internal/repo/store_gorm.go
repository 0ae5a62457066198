package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

type Store struct {
	db     *gorm.DB
	atomic bool
	tasks  *TaskRepo
	users  *UserRepo
}

// NewStore wires the gorm repositories. With atomic set, Atomic runs its
// callback inside a database transaction.
func NewStore(db *gorm.DB, atomic bool) *Store {
	return &Store{db: db, atomic: atomic, tasks: NewTaskRepo(db), users: NewUserRepo(db)}
}

func (s *Store) Tasks() domain.TaskRepository { return s.tasks }
func (s *Store) Users() domain.UserRepository { return s.users }

func (s *Store) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if !s.atomic {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx, false))
	})
}

func applyList(q *gorm.DB, lq domain.ListQuery) *gorm.DB {
	for col, val := range lq.Filters {
		q = q.Where(col+" = ?", val)
	}
	q = q.Where("is_deleted = ?", false)
	col := lq.OrderBy
	if col == "" {
		col = "created_at"
	}
	dir := " ASC"
	if lq.Desc {
		dir = " DESC"
	}
	q = q.Order(col + dir)
	if lq.Limit > 0 {
		q = q.Limit(lq.Limit)
	}
	if lq.Offset > 0 {
		q = q.Offset(lq.Offset)
	}
	return q
}

func applyBrowse(q *gorm.DB, bq domain.BrowseQuery, searchCols ...string) *gorm.DB {
	if !bq.WithDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if s := strings.TrimSpace(bq.Q); s != "" && len(searchCols) > 0 {
		like := "%" + s + "%"
		conds := make([]string, len(searchCols))
		args := make([]any, len(searchCols))
		for i, c := range searchCols {
			conds[i] = c + " LIKE ?"
			args[i] = like
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}
	return q
}
