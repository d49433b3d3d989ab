// Package reset wipes every chat-related table in foreign-key order.
package reset

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/thecodedsurveyor/ai-chat-sub003/internal/database"
	"github.com/thecodedsurveyor/ai-chat-sub003/models"
	"gorm.io/gorm"
)

var ErrNoStore = errors.New("reset: opener returned no store")

// Step is one bulk delete.
type Step struct {
	Name  string
	Model any
}

// Steps lists the tables children first. Chat analytics only reference
// users, so their slot between sessions and users is not load-bearing.
var Steps = []Step{
	{Name: "messages", Model: &models.Message{}},
	{Name: "conversations", Model: &models.Conversation{}},
	{Name: "chats", Model: &models.Chat{}},
	{Name: "sessions", Model: &models.Session{}},
	{Name: "chat analytics", Model: &models.ChatAnalytics{}},
	{Name: "users", Model: &models.User{}},
}

// Store is the connection a reset runs against.
type Store interface {
	DeleteAll(ctx context.Context, model any) (int64, error)
	Close() error
}

// Opener acquires a Store. The caller owns the returned Store.
type Opener func(ctx context.Context) (Store, error)

// Result records how far a run got.
type Result struct {
	Completed []Step
	Deleted   map[string]int64
	Failed    *Step
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Run opens a store, deletes every table in Steps order and closes the store
// on every path. The first failing step stops the run; nothing already
// deleted is restored.
func Run(ctx context.Context, open Opener) (res Result) {
	res.Deleted = make(map[string]int64, len(Steps))

	store, err := open(ctx)
	if err == nil && store == nil {
		err = ErrNoStore
	}
	if err != nil {
		res.Err = fmt.Errorf("open store: %w", err)
		log.Println("Error during database reset:", res.Err)
		return res
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Println("Failed to close database connection:", err)
		}
	}()

	for i := range Steps {
		step := Steps[i]
		n, err := store.DeleteAll(ctx, step.Model)
		if err != nil {
			res.Failed = &step
			res.Err = fmt.Errorf("delete %s: %w", step.Name, err)
			log.Println("Error during database reset:", res.Err)
			return res
		}
		res.Completed = append(res.Completed, step)
		res.Deleted[step.Name] = n
		log.Printf("Deleted %d %s", n, step.Name)
	}

	log.Println("Database reset complete")
	return res
}

// GormOpener opens dsn with database.Open for each run.
func GormOpener(dsn string) Opener {
	return func(ctx context.Context) (Store, error) {
		db, err := database.Open(dsn)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	}
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore hard-deletes every row of a model, soft-deleted rows
// included.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DeleteAll(ctx context.Context, model any) (int64, error) {
	result := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(model)
	return result.RowsAffected, result.Error
}

func (s *gormStore) Close() error {
	return database.Close(s.db)
}
