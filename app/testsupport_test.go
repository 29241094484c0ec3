package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"healthmini/adapters/memory"
	"healthmini/internal/config"
	"healthmini/models"
	"healthmini/ports"
)

// fakeCompletion is a scripted CompletionClient. onComplete, when set, runs
// during the call, standing in for whatever happens while a real gateway
// round trip is in flight.
type fakeCompletion struct {
	mu         sync.Mutex
	answer     string
	err        error
	onComplete func()
	prompts    []string
	modes      []ports.CompletionMode
}

func (f *fakeCompletion) Complete(ctx context.Context, promptContext string, mode ports.CompletionMode) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, promptContext)
	f.modes = append(f.modes, mode)
	hook := f.onComplete
	err := f.err
	answer := f.answer
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (f *fakeCompletion) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeMailer records the codes it was asked to deliver.
type fakeMailer struct {
	mu   sync.Mutex
	otps map[string]int
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: make(map[string]int)}
}

func (m *fakeMailer) SendOTP(ctx context.Context, user *models.User, otp int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[user.Email] = otp
	return nil
}

// testEnv wires the services over in-memory stores with a pinned clock.
type testEnv struct {
	users      *memory.UserStore
	sessions   *memory.SessionStore
	messages   *memory.MessageStore
	records    *memory.HealthRecordStore
	completion *fakeCompletion
	mailer     *fakeMailer

	manager    *SessionManager
	quota      *QuotaEnforcer
	history    *HistoryService
	advice     *AdviceService
	prediction *PredictionService
	userSvc    *UserService
	adminSvc   *AdminService
	sweeper    *RetentionSweeper

	now     time.Time
	userSeq int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sessions := memory.NewSessionStore()
	messages := memory.NewMessageStore(sessions)
	sessions.WithCascade(messages)
	records := memory.NewHealthRecordStore()
	users := memory.NewUserStore().WithCascade(sessions, records)

	env := &testEnv{
		users:      users,
		sessions:   sessions,
		messages:   messages,
		records:    records,
		completion: &fakeCompletion{answer: "stay hydrated"},
		mailer:     newFakeMailer(),
		now:        time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local),
	}

	clock := func() time.Time { return env.now }

	env.manager = NewSessionManager(sessions)
	env.manager.now = clock
	env.quota = NewQuotaEnforcer(messages)
	env.quota.now = clock
	env.history = NewHistoryService(users, sessions, messages)
	env.advice = NewAdviceService(users, messages, env.manager, env.quota, env.completion)
	env.advice.now = clock
	env.prediction = NewPredictionService(users, records, env.completion)
	env.prediction.now = clock
	env.userSvc = NewUserService(users, env.mailer, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	env.userSvc.now = clock
	env.adminSvc = NewAdminService(users, messages)
	env.adminSvc.now = clock
	env.sweeper = NewRetentionSweeper(sessions, nil)

	return env
}

func (e *testEnv) addUser(t *testing.T, plan models.SubscriptionPlan) *models.User {
	t.Helper()
	e.userSeq++
	user := &models.User{
		FullName:         "Test User",
		Email:            fmt.Sprintf("user%d@example.com", e.userSeq),
		EmailVerified:    true,
		Role:             "user",
		SubscriptionPlan: plan,
		CreatedAt:        e.now,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

func (e *testEnv) addSession(t *testing.T, userID int64, createdAt time.Time) *models.ChatSession {
	t.Helper()
	_, end := models.DayWindow(createdAt)
	session := &models.ChatSession{
		UserID:             userID,
		Title:              models.SessionTitle("seed", createdAt),
		CreatedAt:          createdAt,
		ExpiresAt:          end,
		DeletionEligibleAt: createdAt.AddDate(0, 0, 7),
	}
	if err := e.sessions.Create(context.Background(), session); err != nil {
		t.Fatalf("creating test session: %v", err)
	}
	return session
}

func (e *testEnv) addMessage(t *testing.T, sessionID int64, content string, fromUser bool, at time.Time) *models.ChatMessage {
	t.Helper()
	message := &models.ChatMessage{
		SessionID:     sessionID,
		Content:       content,
		IsUserMessage: fromUser,
		Timestamp:     at,
	}
	if err := e.messages.Append(context.Background(), message); err != nil {
		t.Fatalf("appending test message: %v", err)
	}
	return message
}
