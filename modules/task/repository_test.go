package task

import (
	"testing"
	"time"

	domain "github.com/example/taskflow/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedTask inserts a task directly, bypassing the repository.
func seedTask(t *testing.T, db *gorm.DB, task *domain.Task) *domain.Task {
	t.Helper()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return task
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		OwnerID:   "user-1",
		Title:     "Write report",
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found domain.Task
	if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}
	if found.OwnerID != task.OwnerID {
		t.Errorf("expected owner %q, got %q", task.OwnerID, found.OwnerID)
	}
	if found.IsDeleted {
		t.Error("new task should not be soft-deleted")
	}
}

func TestRepository_FindOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	owned := seedTask(t, db, &domain.Task{OwnerID: "user-1", Title: "Mine"})
	foreign := seedTask(t, db, &domain.Task{OwnerID: "user-2", Title: "Theirs"})

	deleted := seedTask(t, db, &domain.Task{OwnerID: "user-1", Title: "Gone"})
	deleted.SoftDelete()
	if err := repo.Save(deleted); err != nil {
		t.Fatalf("failed to soft-delete seed task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindOwned("user-1", owned.ID)
		if err != nil {
			t.Fatalf("FindOwned() error = %v", err)
		}
		if found.ID != owned.ID {
			t.Errorf("expected ID %q, got %q", owned.ID, found.ID)
		}
	})

	// Missing, foreign-owned and soft-deleted must be indistinguishable.
	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindOwned("user-1", "no-such-id")
		if err != domain.ErrTaskNotFound {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("foreign-owned task", func(t *testing.T) {
		_, err := repo.FindOwned("user-1", foreign.ID)
		if err != domain.ErrTaskNotFound {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("soft-deleted task", func(t *testing.T) {
		_, err := repo.FindOwned("user-1", deleted.ID)
		if err != domain.ErrTaskNotFound {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_FindOwnedAny(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	deleted := seedTask(t, db, &domain.Task{OwnerID: "user-1", Title: "Gone"})
	deleted.SoftDelete()
	if err := repo.Save(deleted); err != nil {
		t.Fatalf("failed to soft-delete seed task: %v", err)
	}

	t.Run("sees soft-deleted rows", func(t *testing.T) {
		found, err := repo.FindOwnedAny("user-1", deleted.ID)
		if err != nil {
			t.Fatalf("FindOwnedAny() error = %v", err)
		}
		if !found.IsDeleted {
			t.Error("expected soft-deleted task")
		}
	})

	t.Run("still enforces ownership", func(t *testing.T) {
		_, err := repo.FindOwnedAny("user-2", deleted.ID)
		if err != domain.ErrTaskNotFound {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	base := time.Now().UTC().Add(-time.Hour)
	due := base.Add(30 * time.Minute)

	high := domain.PriorityHigh
	completed := domain.StatusCompleted

	seedTask(t, db, &domain.Task{
		OwnerID: "user-1", Title: "oldest",
		CreatedAt: base, UpdatedAt: base,
	})
	seedTask(t, db, &domain.Task{
		OwnerID: "user-1", Title: "middle", Priority: high, DueDate: &due,
		CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	})
	seedTask(t, db, &domain.Task{
		OwnerID: "user-1", Title: "newest", Status: completed,
		CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute),
	})
	seedTask(t, db, &domain.Task{OwnerID: "user-2", Title: "foreign"})

	hidden := seedTask(t, db, &domain.Task{OwnerID: "user-1", Title: "hidden"})
	hidden.SoftDelete()
	if err := repo.Save(hidden); err != nil {
		t.Fatalf("failed to soft-delete seed task: %v", err)
	}

	page := domain.Page{Offset: 0, Limit: 10}

	t.Run("owner scoped, deleted excluded, newest first", func(t *testing.T) {
		tasks, total, err := repo.List("user-1", domain.ListFilter{}, page)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if len(tasks) != 3 {
			t.Fatalf("len(tasks) = %d, want 3", len(tasks))
		}
		if tasks[0].Title != "newest" || tasks[2].Title != "oldest" {
			t.Errorf("unexpected order: %q ... %q", tasks[0].Title, tasks[2].Title)
		}
		for _, task := range tasks {
			if task.OwnerID != "user-1" {
				t.Errorf("foreign task %q leaked into listing", task.ID)
			}
			if task.IsDeleted {
				t.Errorf("soft-deleted task %q leaked into listing", task.ID)
			}
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		tasks, total, err := repo.List("user-1", domain.ListFilter{Status: &completed}, page)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 1 || len(tasks) != 1 {
			t.Fatalf("got %d/%d results, want 1/1", len(tasks), total)
		}
		if tasks[0].Title != "newest" {
			t.Errorf("got %q, want %q", tasks[0].Title, "newest")
		}
	})

	t.Run("filter by priority", func(t *testing.T) {
		tasks, _, err := repo.List("user-1", domain.ListFilter{Priority: &high}, page)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "middle" {
			t.Errorf("priority filter returned wrong tasks: %d", len(tasks))
		}
	})

	t.Run("filter by due window", func(t *testing.T) {
		before := due.Add(time.Minute)
		after := due.Add(-time.Minute)
		tasks, _, err := repo.List("user-1", domain.ListFilter{
			DueBefore: &before,
			DueAfter:  &after,
		}, page)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "middle" {
			t.Errorf("due window filter returned wrong tasks: %d", len(tasks))
		}
	})

	t.Run("pagination window", func(t *testing.T) {
		tasks, total, err := repo.List("user-1", domain.ListFilter{}, domain.Page{Offset: 1, Limit: 1})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if len(tasks) != 1 || tasks[0].Title != "middle" {
			t.Errorf("pagination returned wrong page")
		}
	})
}

func TestRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := seedTask(t, db, &domain.Task{OwnerID: "user-1", Title: "Original"})

	t.Run("persists mutable fields", func(t *testing.T) {
		task.Title = "Renamed"
		task.Status = domain.StatusInProgress
		task.UpdatedAt = time.Now().UTC()

		if err := repo.Save(task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var found domain.Task
		if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("failed to reload task: %v", err)
		}
		if found.Title != "Renamed" {
			t.Errorf("title = %q, want %q", found.Title, "Renamed")
		}
		if found.Status != domain.StatusInProgress {
			t.Errorf("status = %q, want %q", found.Status, domain.StatusInProgress)
		}
	})

	t.Run("persists restore of zero-valued fields", func(t *testing.T) {
		task.SoftDelete()
		if err := repo.Save(task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		task.Restore()
		if err := repo.Save(task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var found domain.Task
		if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("failed to reload task: %v", err)
		}
		if found.IsDeleted {
			t.Error("IsDeleted = true after restore save")
		}
		if found.DeletedAt != nil {
			t.Error("DeletedAt set after restore save")
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		missing := &domain.Task{ID: "no-such-id", OwnerID: "user-1", Title: "X"}
		if err := repo.Save(missing); err != domain.ErrTaskNotFound {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
