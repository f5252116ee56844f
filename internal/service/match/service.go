package match

import (
	"context"

	"github.com/okoval/minidate/internal/app"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/repository"
)

// Service implements the like/match API: recording likes, listing matches
// and the cached incoming-like counter.
type Service struct {
	appCtx *app.AppContext
	likes  *repository.LikeRepository
	chats  *repository.ChatRepository
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		likes:  repository.NewLikeRepository(appCtx.DB),
		chats:  repository.NewChatRepository(appCtx.DB),
	}
}

// LikeRequest records that the caller likes ToUser.
type LikeRequest struct {
	ToUser int64 `json:"to_user"`
}

// LikeResponse reports whether a chat exists for the pair as of this call.
type LikeResponse struct {
	Match bool `json:"match"`
}

// CountLikersResponse carries the number of users who liked the caller.
type CountLikersResponse struct {
	Count int64 `json:"count"`
}

// RecordLike stores the directed like and reports whether it completed a
// mutual match. Replaying a like is a no-op and still reports the current
// match state.
func (s *Service) RecordLike(ctx context.Context, actorID int64, req *LikeRequest) (*LikeResponse, error) {
	if req.ToUser == 0 {
		return nil, apperr.InvalidArgument("to_user is required")
	}
	if req.ToUser == actorID {
		return nil, apperr.InvalidArgument("cannot like yourself")
	}

	matched, err := s.likes.RecordLike(ctx, actorID, req.ToUser)
	if err != nil {
		s.appCtx.Logger.Error("record like failed", "from", actorID, "to", req.ToUser, "err", err)
		return nil, apperr.Map(err)
	}

	// drop the cached liker count; the next read recomputes it
	_ = s.appCtx.RedisCache.InvalidateLikeCount(ctx, req.ToUser)

	s.appCtx.Logger.Debug("like recorded", "from", actorID, "to", req.ToUser, "match", matched)
	return &LikeResponse{Match: matched}, nil
}

// ListMatches returns the counterpart summary of every chat the user is in.
func (s *Service) ListMatches(ctx context.Context, userID int64) ([]repository.MatchProfile, error) {
	rows, err := s.chats.MatchesForUser(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("list matches failed", "user", userID, "err", err)
		return nil, apperr.Map(err)
	}
	if rows == nil {
		rows = []repository.MatchProfile{}
	}
	return rows, nil
}

// CountLikers returns how many users liked the caller.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a fresh TTL.
func (s *Service) CountLikers(ctx context.Context, userID int64) (*CountLikersResponse, error) {
	if n, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && ok {
		return &CountLikersResponse{Count: n}, nil
	}

	count, err := s.likes.CountLikers(ctx, userID)
	if err != nil {
		return nil, apperr.Map(err)
	}

	_ = s.appCtx.RedisCache.SetLikeCount(ctx, userID, count)
	return &CountLikersResponse{Count: count}, nil
}
