package service_test

import (
	"testing"

	"booklog-be/internal/model"
	"booklog-be/internal/pkg/logger"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/internal/service"
	"booklog-be/internal/testutil"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	publisher  service.IPublisherService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	return &fixture{
		db:         db,
		uowFactory: unitofwork.NewRepositoryFactory(db),
		publisher:  service.NewPublisherService("test.events", pubSub, nil, logger.NewNopLogger()),
	}
}

func (f *fixture) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := f.db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (f *fixture) memoCount(t *testing.T, bookId uint) int64 {
	return f.count(t, &model.Memo{}, "book_id = ?", bookId)
}
