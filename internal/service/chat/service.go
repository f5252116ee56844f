package chat

import (
	"context"
	"strings"
	"time"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/db"
	apperr "github.com/okoval/minidate/internal/errors"
	"github.com/okoval/minidate/internal/repository"
)

// messagePageSize caps how many messages a single listing returns.
const messagePageSize = 50

// Service implements the chat API: listing and sending messages inside a
// matched pair's chat. Every operation checks chat membership first;
// non-members get the same not-found answer as a missing chat.
type Service struct {
	appCtx *app.AppContext
	chats  *repository.ChatRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		chats:  repository.NewChatRepository(appCtx.DB),
	}
}

// SendMessageRequest appends a message to a chat the caller belongs to. The
// sender is the authenticated identity, never a body field.
type SendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// MessageResponse is the public view of a message, joined with the sender's
// profile name.
type MessageResponse struct {
	ID        int64     `json:"id"`
	FromUser  int64     `json:"from_user"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ListMessages returns up to 50 most recent messages of the chat in
// chronological order.
func (s *Service) ListMessages(ctx context.Context, actorID, chatID int64) ([]MessageResponse, error) {
	if err := s.requireMember(ctx, chatID, actorID); err != nil {
		return nil, err
	}

	rows, err := s.chats.RecentMessages(ctx, chatID, messagePageSize)
	if err != nil {
		s.appCtx.Logger.Error("list messages failed", "chat", chatID, "err", err)
		return nil, apperr.Map(err)
	}

	// the store returns newest first; flip to chronological
	out := make([]MessageResponse, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = MessageResponse{
			ID:        m.ID,
			FromUser:  m.FromUserID,
			Name:      m.Name,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

// SendMessage validates the request and appends the message.
func (s *Service) SendMessage(ctx context.Context, actorID int64, req *SendMessageRequest) error {
	if req.ChatID == 0 {
		return apperr.InvalidArgument("chat_id is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.InvalidArgument("text is required")
	}

	if err := s.requireMember(ctx, req.ChatID, actorID); err != nil {
		return err
	}

	msg := &db.Message{
		ChatID:     req.ChatID,
		FromUserID: actorID,
		Text:       req.Text,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		s.appCtx.Logger.Error("send message failed", "chat", req.ChatID, "from", actorID, "err", err)
		return apperr.Map(err)
	}

	s.appCtx.Logger.Debug("message sent", "chat", req.ChatID, "from", actorID)
	return nil
}

func (s *Service) requireMember(ctx context.Context, chatID, userID int64) error {
	ok, err := s.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return apperr.Map(err)
	}
	if !ok {
		return apperr.Map(apperr.ErrNotFound)
	}
	return nil
}
