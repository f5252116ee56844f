package profile

import (
	"context"
	"errors"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/db"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/repository"
	"github.com/okoval/minidate/internal/utils/pagination"
)

// feedLimit caps a single discovery page.
const feedLimit = 50

// Service implements the profile API: fetch, upsert and the discovery feed.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// ProfileResponse is the public view of a profile row.
type ProfileResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       *int   `json:"age,omitempty"`
	City      string `json:"city,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Interests string `json:"interests,omitempty"`
	Username  string `json:"username,omitempty"`
}

// UpsertRequest carries every writable profile field. The id always comes
// from the authenticated identity, never from the body.
type UpsertRequest struct {
	Name      string `json:"name"`
	Age       *int   `json:"age"`
	City      string `json:"city"`
	Bio       string `json:"bio"`
	Interests string `json:"interests"`
	Username  string `json:"username"`
}

// DiscoverResponse is one page of the discovery feed.
type DiscoverResponse struct {
	Profiles      []ProfileResponse `json:"profiles"`
	NextPageToken *string           `json:"next_page_token,omitempty"`
}

// GetProfile returns a single profile or a not-found error.
func (s *Service) GetProfile(ctx context.Context, id int64) (*ProfileResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.appCtx.Logger.Debug("profile lookup failed", "id", id, "err", err)
		return nil, apperr.Map(err)
	}
	resp := toResponse(u)
	return &resp, nil
}

// UpsertProfile validates the request and inserts or fully overwrites the
// caller's profile row.
func (s *Service) UpsertProfile(ctx context.Context, userID int64, req *UpsertRequest) error {
	if req.Name == "" {
		return apperr.InvalidArgument("name is required")
	}

	u := &db.User{
		ID:        userID,
		Name:      req.Name,
		Age:       req.Age,
		City:      req.City,
		Bio:       req.Bio,
		Interests: req.Interests,
		Username:  req.Username,
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		s.appCtx.Logger.Error("profile upsert failed", "id", userID, "err", err)
		return apperr.Map(err)
	}

	s.appCtx.Logger.Debug("profile upserted", "id", userID)
	return nil
}

// Discover returns one page of candidate profiles for the viewer. See
// UserRepository.Discover for the exclusion rules.
func (s *Service) Discover(ctx context.Context, viewerID int64, pageToken *string) (*DiscoverResponse, error) {
	users, nextToken, err := s.users.Discover(ctx, viewerID, pageToken, feedLimit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidToken) {
			return nil, apperr.InvalidArgument(err.Error())
		}
		s.appCtx.Logger.Error("discover failed", "viewer", viewerID, "err", err)
		return nil, apperr.Map(err)
	}

	resp := &DiscoverResponse{
		Profiles:      make([]ProfileResponse, 0, len(users)),
		NextPageToken: nextToken,
	}
	for i := range users {
		resp.Profiles = append(resp.Profiles, toResponse(&users[i]))
	}
	return resp, nil
}

func toResponse(u *db.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		City:      u.City,
		Bio:       u.Bio,
		Interests: u.Interests,
		Username:  u.Username,
	}
}
