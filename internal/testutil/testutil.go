// Package testutil builds throwaway databases and wiring for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"booklog-be/internal/bootstrap"
	"booklog-be/internal/config"
	"booklog-be/internal/entity"
	"booklog-be/internal/model"
	"booklog-be/internal/pkg/lock"
	"booklog-be/internal/pkg/logger"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := database.NewSqliteDB(dsn, database.WithLogLevel(gormlogger.Silent))
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			BaseURL:            "http://localhost",
			Environment:        "test",
			CorsAllowedOrigins: "http://localhost:5173",
		},
		Database: config.DatabaseConfig{Driver: database.DriverSqlite},
		Auth: config.AuthConfig{
			JwtSecret:         "test-secret",
			SessionCookieName: "booklog_session",
			SessionTTL:        time.Hour,
			LoginPath:         "/login",
		},
		Guest: config.GuestConfig{
			Email:    "guest@booklog.local",
			FullName: "ゲストユーザー",
		},
	}
}

// NewTestInfrastructure uses only in-process backends and silent loggers.
func NewTestInfrastructure() *bootstrap.Infrastructure {
	return &bootstrap.Infrastructure{
		Logger:      logger.NewNopLogger(),
		AuditLogger: logger.NewNopLogger(),
		Locker:      lock.NewMemoryLocker(),
		PubSub:      gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

// CreateUser inserts a registered user and returns its identity.
func CreateUser(t *testing.T, db *gorm.DB, email string) entity.Identity {
	t.Helper()

	now := time.Now()
	user := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return entity.IdentityOf(user.Id)
}

// CreateBook inserts a book owned by identity, with optional memos.
func CreateBook(t *testing.T, db *gorm.DB, identity entity.Identity, title, author string, memos ...string) *entity.Book {
	t.Helper()

	now := time.Now()
	book := &entity.Book{
		Title:     title,
		Author:    author,
		UserId:    identity.UserId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	memoEntities := make([]*entity.Memo, 0, len(memos))
	for _, content := range memos {
		memoEntities = append(memoEntities, &entity.Memo{Content: content, CreatedAt: now})
	}

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())
	require.NoError(t, uow.BookRepository().CreateWithMemos(context.Background(), book, memoEntities))
	return book
}
