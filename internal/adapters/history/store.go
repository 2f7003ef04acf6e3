// Package history persists a summary of every install run in a local
// SQLite database.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dotsetup/dotsetup/internal/domain/execution"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultLimit is the number of runs List returns when limit <= 0.
const DefaultLimit = 20

// Run is one recorded install run.
type Run struct {
	ID               string `gorm:"primaryKey"`
	Outcome          string `gorm:"index"`
	FailedStep       string
	Reason           string
	Applied          int
	Satisfied        int
	Failed           int
	RolledBack       bool
	RollbackFailures int
	DryRun           bool
	StartedAt        time.Time `gorm:"index"`
	FinishedAt       time.Time
	Actions          []Action `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// Action is one ledger entry of a run, in recording order.
type Action struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"index"`
	Seq    int
	Kind   string
	Detail string
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store provides run history persistence via SQLite.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&Run{}, &Action{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FromRunState converts a finished run into a history record.
func FromRunState(state execution.RunState, dryRun bool) *Run {
	applied, satisfied, failed := state.Counts()
	run := &Run{
		ID:               state.ID,
		Outcome:          string(state.State),
		FailedStep:       state.FailedStep,
		Reason:           state.Reason(),
		Applied:          applied,
		Satisfied:        satisfied,
		Failed:           failed,
		RolledBack:       state.RolledBack,
		RollbackFailures: len(state.Rollback.Failures()),
		DryRun:           dryRun,
		StartedAt:        state.Started.UTC(),
		FinishedAt:       state.Finished.UTC(),
	}
	for i, a := range state.Actions {
		run.Actions = append(run.Actions, Action{
			RunID:  state.ID,
			Seq:    i,
			Kind:   string(a.Kind()),
			Detail: a.String(),
		})
	}
	return run
}

// Record stores a run together with its actions.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Get returns a run and its actions by ID or by an ID prefix such as the
// short form the history table prints. A prefix shared by several runs
// selects the most recent one.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where(`id = ? OR id LIKE ? ESCAPE '\'`, id, likePrefix.Replace(id)+"%").
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// likePrefix escapes LIKE wildcards so a prefix matches literally.
var likePrefix = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns the most recent runs first, without their actions.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var runs []*Run
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
