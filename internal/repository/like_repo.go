package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okoval/minidate/internal/db"
)

// LikeRepository provides data access for likes and the chats derived from
// them. Chat rows are a materialized view of "mutual like": they are only
// ever written here, as a side effect of RecordLike.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// RecordLike inserts the directed like and, when the reverse like already
// exists, creates the chat for the canonical (smaller id first) pair. Both
// writes run inside one transaction so a crash between them cannot leave a
// mutual pair without its chat.
//
// Every insert is idempotent: the composite PK on likes and the unique index
// on the chat pair turn replays and concurrent duplicates into no-ops, which
// is what makes two reciprocal likes racing each other safe.
//
// Returns whether a mutual match exists as of this call (newly created chat
// or pre-existing).
func (r *LikeRepository) RecordLike(ctx context.Context, fromID, toID int64) (bool, error) {
	var mutual bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := db.Like{FromUserID: fromID, ToUserID: toID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}

		var reverse int64
		if err := tx.Model(&db.Like{}).
			Where("from_user_id = ? AND to_user_id = ?", toID, fromID).
			Count(&reverse).Error; err != nil {
			return err
		}
		if reverse == 0 {
			return nil
		}
		mutual = true

		u1, u2 := fromID, toID
		if u2 < u1 {
			u1, u2 = u2, u1
		}
		chat := db.Chat{User1ID: u1, User2ID: u2}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&chat).Error
	})
	if err != nil {
		return false, err
	}
	return mutual, nil
}

// CountLikers returns how many users liked the given user. Used together
// with the Redis counter cache (DB is the fallback).
func (r *LikeRepository) CountLikers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
