package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusgames/fanzone-api/filter"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
)

var testDBCounter atomic.Uint64

// newTestDB opens a fresh in-memory database migrated with the full
// schema. Shared cache keeps every pooled connection on the same
// database; the counter keeps tests isolated from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:fanzone_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.BannedWord{},
		&models.ChatMessage{},
		&models.ChatReaction{},
		&models.Match{},
		&models.MatchVote{},
		&models.MutedUser{},
		&models.Sport{},
		&models.Stream{},
		&models.Team{},
	))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestHub(t *testing.T) *realtime.Hub {
	t.Helper()
	h := realtime.NewHub(zap.NewNop())
	t.Cleanup(h.Close)
	return h
}

func newChatService(t *testing.T) *ChatService {
	t.Helper()
	return &ChatService{
		DB:     newTestDB(t),
		Hub:    newTestHub(t),
		Filter: filter.Default,
		Log:    zap.NewNop(),
	}
}
