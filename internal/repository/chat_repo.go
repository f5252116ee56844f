package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/okoval/minidate/internal/db"
)

// MatchProfile is the counterpart's summary for a chat the user belongs to.
type MatchProfile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	City   string `json:"city"`
	ChatID int64  `json:"chat_id"`
}

// MessageRow is a message joined with its sender's profile name.
type MessageRow struct {
	ID         int64
	FromUserID int64
	Name       string
	Text       string
	CreatedAt  time.Time
}

// ChatRepository provides data access for chats and their messages.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new repository bound to the given DB connection.
func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

// MatchesForUser lists the counterpart profile of every chat the user is in,
// newest chat first.
func (r *ChatRepository) MatchesForUser(ctx context.Context, userID int64) ([]MatchProfile, error) {
	var rows []MatchProfile
	err := r.db.WithContext(ctx).
		Table("chats c").
		Select("u.id, u.name, u.city, c.id AS chat_id").
		Joins("JOIN users u ON u.id = CASE WHEN c.user1_id = ? THEN c.user2_id ELSE c.user1_id END", userID).
		Where("c.user1_id = ? OR c.user2_id = ?", userID, userID).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

// IsMember reports whether the user participates in the chat.
func (r *ChatRepository) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Chat{}).
		Where("id = ? AND (user1_id = ? OR user2_id = ?)", chatID, userID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateMessage appends a message to a chat. Messages are immutable after
// this insert.
func (r *ChatRepository) CreateMessage(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// RecentMessages returns up to limit messages for the chat, newest first.
// Callers reverse the slice for chronological display.
func (r *ChatRepository) RecentMessages(ctx context.Context, chatID int64, limit int) ([]MessageRow, error) {
	var rows []MessageRow
	err := r.db.WithContext(ctx).
		Table("messages m").
		Select("m.id, m.from_user_id, u.name, m.text, m.created_at").
		Joins("JOIN users u ON u.id = m.from_user_id").
		Where("m.chat_id = ?", chatID).
		Order("m.created_at DESC, m.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
