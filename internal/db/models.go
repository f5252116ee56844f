package db

import (
	"time"
)

// User is a dating profile. The primary key is the Telegram user id supplied
// by the client; it is never generated server-side, and re-submitting a
// profile overwrites the existing row.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:128;not null"`
	Age       *int
	City      string    `gorm:"size:128"`
	Bio       string    `gorm:"type:text"`
	Interests string    `gorm:"type:text"`
	Username  string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

// Like is a directed "A is interested in B" record.
//
// Composite PK: (FromUserID, ToUserID)
//   - At most one row per ordered pair; A→B and B→A are distinct rows.
//   - Inserts are DO NOTHING on conflict, so re-liking neither errors nor
//     refreshes the timestamp.
type Like struct {
	FromUserID int64     `gorm:"primaryKey;autoIncrement:false"`
	ToUserID   int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Chat is the channel opened for a mutual like. The pair is stored in
// canonical order (User1ID < User2ID) so the unique index holds for the
// unordered pair. Concurrent reciprocal likes both racing to create the chat
// resolve through this constraint: one insert wins, the other is a no-op.
type Chat struct {
	ID        int64     `gorm:"primaryKey"`
	User1ID   int64     `gorm:"column:user1_id;not null;uniqueIndex:idx_chat_pair,priority:1"`
	User2ID   int64     `gorm:"column:user2_id;not null;uniqueIndex:idx_chat_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message belongs to exactly one chat and is immutable once written.
type Message struct {
	ID         int64     `gorm:"primaryKey"`
	ChatID     int64     `gorm:"not null;index"`
	FromUserID int64     `gorm:"not null"`
	Text       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}
