package app

import (
	"context"
	"strings"
	"time"

	"healthmini/internal/errors"
	"healthmini/internal/keylock"
	"healthmini/models"
	"healthmini/ports"
)

// AdviceService orchestrates one advice turn: admit against quota, find or
// create today's session, assemble context, persist the user message, call
// the completion gateway, persist the assistant message.
//
// Quota check, session get-or-create and the user-message insert run inside
// one per-user critical section, which makes the daily cap a hard limit: two
// racing requests cannot both observe count = limit-1. The gateway call and
// the assistant-message insert happen outside the lock so a slow provider
// never blocks the user's next request.
type AdviceService struct {
	users      ports.UserRepository
	messages   ports.MessageRepository
	sessions   *SessionManager
	quota      *QuotaEnforcer
	completion ports.CompletionClient
	locks      *keylock.KeyedMutex
	now        func() time.Time
}

// NewAdviceService creates the advice orchestrator.
func NewAdviceService(
	users ports.UserRepository,
	messages ports.MessageRepository,
	sessions *SessionManager,
	quota *QuotaEnforcer,
	completion ports.CompletionClient,
) *AdviceService {
	return &AdviceService{
		users:      users,
		messages:   messages,
		sessions:   sessions,
		quota:      quota,
		completion: completion,
		locks:      keylock.New(),
		now:        time.Now,
	}
}

// GetHealthAdvice serves one user turn and returns the assistant's answer.
// If the gateway fails, the user message stays persisted (it counts toward
// quota) and no assistant message is written.
func (s *AdviceService) GetHealthAdvice(ctx context.Context, userID int64, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.InvalidInput("prompt must not be empty")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	session, fullPrompt, err := s.admitAndRecord(ctx, user, prompt)
	if err != nil {
		return "", err
	}

	answer, err := s.completion.Complete(ctx, fullPrompt, ports.ModeAdvice)
	if err != nil {
		return "", err
	}

	// The assistant message joins the session that admitted the user
	// message, even if the day rolled over during the gateway call.
	aiMessage := &models.ChatMessage{
		SessionID:     session.ID,
		Content:       answer,
		IsUserMessage: false,
		Timestamp:     s.now(),
	}
	if err := s.messages.Append(ctx, aiMessage); err != nil {
		return "", errors.Wrap(err, "saving assistant message")
	}

	return answer, nil
}

// admitAndRecord runs the quota check, session resolution, context assembly
// and user-message insert under the user's lock, returning the admitting
// session and the prompt to send to the gateway.
func (s *AdviceService) admitAndRecord(ctx context.Context, user *models.User, prompt string) (*models.ChatSession, string, error) {
	s.locks.Lock(user.ID)
	defer s.locks.Unlock(user.ID)

	if err := s.quota.CheckDailyLimit(ctx, user); err != nil {
		return nil, "", err
	}

	session, err := s.sessions.GetOrCreateDailySession(ctx, user, prompt)
	if err != nil {
		return nil, "", err
	}

	history, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, "", errors.Wrap(err, "loading chat history")
	}

	userMessage := &models.ChatMessage{
		SessionID:     session.ID,
		Content:       prompt,
		IsUserMessage: true,
		Timestamp:     s.now(),
	}
	if err := s.messages.Append(ctx, userMessage); err != nil {
		return nil, "", errors.Wrap(err, "saving user message")
	}

	return session, renderContext(history) + "\nUser: " + prompt, nil
}

// renderContext concatenates prior turns as "User: ...\nAI: ..." lines.
func renderContext(messages []*models.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		if m.IsUserMessage {
			b.WriteString("User: ")
		} else {
			b.WriteString("AI: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}
