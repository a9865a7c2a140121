package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSqliteEnforcesForeignKeys(t *testing.T) {
	db, err := Open(DriverSqlite, "file::memory:", WithLogLevel(logger.Silent))
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSqliteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(DriverSqlite, "file::memory:", WithLogLevel(logger.Silent))
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "ABC", want: "abc"},
		{in: "Émile", want: "émile"},
		{in: "ＡＢＣ殺人事件", want: "ａｂｃ殺人事件"},
		{in: "吾輩は猫である", want: "吾輩は猫である"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got string
			require.NoError(t, db.Raw("SELECT LOWER(?)", tt.in).Scan(&got).Error)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("null stays null", func(t *testing.T) {
		var isNull bool
		require.NoError(t, db.Raw("SELECT LOWER(NULL) IS NULL").Scan(&isNull).Error)
		assert.True(t, isNull)
	})
}
