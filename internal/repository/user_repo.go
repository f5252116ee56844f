package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okoval/minidate/internal/db"
	"github.com/okoval/minidate/internal/utils/pagination"
)

// UserRepository provides data access methods for profile rows.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID fetches a single profile. Missing rows surface as
// gorm.ErrRecordNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert inserts the profile or overwrites every mutable field of the
// existing row. The id is the client-supplied Telegram user id, so
// re-submission is insert-or-replace, never a duplicate.
func (r *UserRepository) Upsert(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "age", "city", "bio", "interests", "username", "updated_at",
			}),
		}).
		Create(u).Error
}

// Discover returns candidate profiles for the viewer.
//
// Behavior:
//   - Excludes the viewer and every user the viewer already liked.
//   - Users who liked the viewer without reciprocation still appear.
//   - Ordered by most recently active profile first (updated_at DESC), with
//     id as tie-breaker.
//   - Supports cursor-based pagination via paginationToken.
func (r *UserRepository) Discover(
	ctx context.Context,
	viewerID int64,
	paginationToken *string,
	limit int,
) ([]db.User, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	liked := r.db.
		Table("likes").
		Select("to_user_id").
		Where("from_user_id = ?", viewerID)

	query := r.db.WithContext(ctx).
		Table("users u").
		Where("u.id <> ?", viewerID).
		Where("u.id NOT IN (?)", liked).
		Order("u.updated_at DESC, u.id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.UserID > 0 && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(u.updated_at < ? OR (u.updated_at = ? AND u.id < ?))",
			ts, ts, cursor.UserID,
		)
	}

	var users []db.User
	if err := query.Find(&users).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(users) > limit {
		last := users[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			UserID:      last.ID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		users = users[:limit]
	}

	return users, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
