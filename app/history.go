package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"healthmini/internal/errors"
	"healthmini/models"
	"healthmini/ports"
)

// historyFanOut bounds concurrent per-session message fetches when building
// a full user history.
const historyFanOut = 4

// HistoryService assembles ordered transcripts. Pure reads; it never assumes
// a snapshot stronger than "may or may not see a session created a moment
// ago", so it is safe to call concurrently with writers.
type HistoryService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	messages ports.MessageRepository
}

// NewHistoryService creates a history service.
func NewHistoryService(users ports.UserRepository, sessions ports.SessionRepository, messages ports.MessageRepository) *HistoryService {
	return &HistoryService{users: users, sessions: sessions, messages: messages}
}

// SessionTranscript returns one session's messages ordered ascending by
// timestamp. A missing session or a session with no messages is NOT_FOUND.
func (h *HistoryService) SessionTranscript(ctx context.Context, sessionID int64) (*models.SessionTranscript, error) {
	session, err := h.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := h.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading messages for session %d", session.ID)
	}
	if len(messages) == 0 {
		return nil, errors.NotFound("messages for session")
	}

	return &models.SessionTranscript{
		SessionID: session.ID,
		Title:     session.Title,
		Messages:  toTranscript(messages),
	}, nil
}

// AllSessions returns every non-deleted session the user created before
// asOf, each with its ordered messages. NOT_FOUND if the user has no
// sessions at all.
func (h *HistoryService) AllSessions(ctx context.Context, userID int64, asOf time.Time) (*models.ChatHistory, error) {
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := h.sessions.FindForUserBefore(ctx, userID, asOf)
	if err != nil {
		return nil, errors.Wrap(err, "loading sessions")
	}
	if len(sessions) == 0 {
		return nil, errors.NotFound("chat sessions for user")
	}

	transcripts := make([]models.SessionTranscript, len(sessions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFanOut)
	for i, session := range sessions {
		g.Go(func() error {
			messages, err := h.messages.ListBySession(gctx, session.ID)
			if err != nil {
				return errors.Wrapf(err, "loading messages for session %d", session.ID)
			}
			transcripts[i] = models.SessionTranscript{
				SessionID: session.ID,
				Title:     session.Title,
				Messages:  toTranscript(messages),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.ChatHistory{
		UserID:   user.ID,
		Username: user.FullName,
		Sessions: transcripts,
	}, nil
}

func toTranscript(messages []*models.ChatMessage) []models.TranscriptMessage {
	out := make([]models.TranscriptMessage, len(messages))
	for i, m := range messages {
		out[i] = models.TranscriptMessage{Content: m.Content, IsUserMessage: m.IsUserMessage}
	}
	return out
}
