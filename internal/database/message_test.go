package database

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite archive for testing.
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return NewDatabase(db, logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestDatabase_AppendMessage_FallbackName(t *testing.T) {
	req := require.New(t)
	d := setupTestDB(t)

	msg, err := d.AppendMessage(context.Background(), "general", "conn-1", "Alice", "hello")
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Equal("Alice", msg.SenderName)
	req.Equal("general", msg.RoomID)
	req.False(msg.CreatedAt.IsZero())
}

func TestDatabase_AppendMessage_ResolvesAccountName(t *testing.T) {
	req := require.New(t)
	d := setupTestDB(t)
	ctx := context.Background()

	req.NoError(d.db.Create(&models.User{ID: "user-1", Username: "alice_registered"}).Error)

	msg, err := d.AppendMessage(ctx, "general", "user-1", "Alice", "hello")
	req.NoError(err)
	req.Equal("alice_registered", msg.SenderName)
}

func TestDatabase_GetRoomMessages_Paging(t *testing.T) {
	req := require.New(t)
	d := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		req.NoError(d.db.Create(&models.Message{
			RoomID:     "general",
			SenderID:   "u",
			SenderName: "U",
			Content:    string(rune('a' + i)),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	req.NoError(d.db.Create(&models.Message{
		RoomID: "random", SenderID: "u", SenderName: "U", Content: "other", CreatedAt: base,
	}).Error)

	page, err := d.GetRoomMessages(ctx, "general", 2, nil)
	req.NoError(err)
	req.Len(page, 2)
	req.Equal("d", page[0].Content)
	req.Equal("e", page[1].Content)

	before := page[0].CreatedAt
	page, err = d.GetRoomMessages(ctx, "general", 10, &before)
	req.NoError(err)
	req.Len(page, 3)
	req.Equal("a", page[0].Content)
	req.Equal("c", page[2].Content)

	page, err = d.GetRoomMessages(ctx, "missing", 0, nil)
	req.NoError(err)
	req.Empty(page)
}

func TestDatabase_UpdateLastSeen_UnknownUserIsNoop(t *testing.T) {
	d := setupTestDB(t)
	require.NoError(t, d.UpdateLastSeen(context.Background(), "nobody"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "dsn", logs.GetLoggerFromLevel(slog.LevelDebug))
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}
