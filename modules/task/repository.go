package task

import (
	"errors"
	"fmt"

	domain "github.com/example/taskflow/domain/task"
	"gorm.io/gorm"
)

// Repository provides access to task storage using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(t *domain.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindOwned retrieves an active task by id, scoped to its owner. A missing
// id, a foreign-owned task, and a soft-deleted task all collapse into
// ErrTaskNotFound: a single query predicate so callers cannot probe for
// other users' data.
func (r *Repository) FindOwned(ownerID, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.First(&t, "id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindOwnedAny retrieves a task by id and owner regardless of its
// soft-delete state. Restore needs to see soft-deleted rows.
func (r *Repository) FindOwnedAny(ownerID, id string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List returns the owner's active tasks matching the filter, newest first,
// along with the total number of matches before pagination.
func (r *Repository) List(ownerID string, filter domain.ListFilter, page domain.Page) ([]*domain.Task, int64, error) {
	var total int64
	if err := r.listQuery(ownerID, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []*domain.Task
	err := r.listQuery(ownerID, filter).
		Order("created_at DESC, id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// listQuery builds the owner-scoped query shared by Count and Find.
func (r *Repository) listQuery(ownerID string, filter domain.ListFilter) *gorm.DB {
	q := r.db.Model(&domain.Task{}).Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		q = q.Where("due_date > ?", *filter.DueAfter)
	}
	return q
}

// Save persists the mutable fields of a task in a single UPDATE statement,
// so a concurrent reader never observes a partial write. The id, owner and
// creation timestamp columns are never touched.
func (r *Repository) Save(t *domain.Task) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Select("title", "description", "status", "priority", "due_date", "updated_at", "is_deleted", "deleted_at").
		Updates(t)
	if result.Error != nil {
		return fmt.Errorf("failed to save task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
