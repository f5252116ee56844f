package chat_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/cache"
	"github.com/okoval/minidate/internal/config"
	"github.com/okoval/minidate/internal/db"
	"github.com/okoval/minidate/internal/service/chat"
)

// setupService wires an isolated sqlite DB + miniredis into a chat service.
//
// Dataset:
//   - Users: 101 (Ann), 102 (Ben), 103 (Kim)
//   - One chat between 101 and 102. Kim is not a member.
func setupService(t *testing.T) (*chat.Service, int64) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&db.User{}, &db.Like{}, &db.Chat{}, &db.Message{}))

	users := []db.User{
		{ID: 101, Name: "Ann"},
		{ID: 102, Name: "Ben"},
		{ID: 103, Name: "Kim"},
	}
	require.NoError(t, gdb.Create(&users).Error)

	matched := db.Chat{User1ID: 101, User2ID: 102}
	require.NoError(t, gdb.Create(&matched).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(gdb, redisCache, logger)
	return chat.NewService(appCtx), matched.ID
}

func requireFiberStatus(t *testing.T, err error, status int) {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, status, fe.Code)
}

// TestSendAndListChronological sends a short conversation and checks the
// listing comes back oldest-first with sender names resolved.
func TestSendAndListChronological(t *testing.T) {
	ctx := context.Background()
	svc, chatID := setupService(t)

	for i, m := range []struct {
		from int64
		text string
	}{
		{101, "hi!"},
		{102, "hey :)"},
		{101, "coffee this week?"},
	} {
		err := svc.SendMessage(ctx, m.from, &chat.SendMessageRequest{ChatID: chatID, Text: m.text})
		require.NoError(t, err, "message %d", i)
	}

	msgs, err := svc.ListMessages(ctx, 101, chatID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, "hi!", msgs[0].Text)
	assert.Equal(t, "Ann", msgs[0].Name)
	assert.Equal(t, "hey :)", msgs[1].Text)
	assert.Equal(t, "Ben", msgs[1].Name)
	assert.Equal(t, "coffee this week?", msgs[2].Text)
}

func TestListCapsAtFifty(t *testing.T) {
	ctx := context.Background()
	svc, chatID := setupService(t)

	for i := 1; i <= 55; i++ {
		err := svc.SendMessage(ctx, 101, &chat.SendMessageRequest{
			ChatID: chatID,
			Text:   fmt.Sprintf("msg %d", i),
		})
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx, 102, chatID)
	require.NoError(t, err)
	require.Len(t, msgs, 50)

	// the five oldest fall off; the rest stay chronological
	assert.Equal(t, "msg 6", msgs[0].Text)
	assert.Equal(t, "msg 55", msgs[49].Text)
}

func TestMembershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, chatID := setupService(t)

	_, err := svc.ListMessages(ctx, 103, chatID)
	requireFiberStatus(t, err, fiber.StatusNotFound)

	err = svc.SendMessage(ctx, 103, &chat.SendMessageRequest{ChatID: chatID, Text: "let me in"})
	requireFiberStatus(t, err, fiber.StatusNotFound)

	// unknown chat looks the same as a foreign one
	_, err = svc.ListMessages(ctx, 101, chatID+999)
	requireFiberStatus(t, err, fiber.StatusNotFound)
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, chatID := setupService(t)

	err := svc.SendMessage(ctx, 101, &chat.SendMessageRequest{ChatID: chatID, Text: "   "})
	requireFiberStatus(t, err, fiber.StatusBadRequest)

	err = svc.SendMessage(ctx, 101, &chat.SendMessageRequest{Text: "no chat"})
	requireFiberStatus(t, err, fiber.StatusBadRequest)
}
