package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"healthmini/internal/errors"
	"healthmini/models"
)

func TestGetHealthAdvicePersistsBothTurns(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	ctx := context.Background()

	answer, err := env.advice.GetHealthAdvice(ctx, user.ID, "how much water should I drink?")
	require.NoError(t, err)
	require.Equal(t, "stay hydrated", answer)

	start, end := models.DayWindow(env.now)
	sessions, err := env.sessions.FindForUserInWindow(ctx, user.ID, start, end)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	messages, err := env.messages.ListBySession(ctx, sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.True(t, messages[0].IsUserMessage)
	require.Equal(t, "how much water should I drink?", messages[0].Content)
	require.False(t, messages[1].IsUserMessage)
	require.Equal(t, "stay hydrated", messages[1].Content)
}

func TestGetHealthAdviceIncludesPriorTurnsInPrompt(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	ctx := context.Background()

	_, err := env.advice.GetHealthAdvice(ctx, user.ID, "first question")
	require.NoError(t, err)

	env.now = env.now.Add(time.Minute)
	_, err = env.advice.GetHealthAdvice(ctx, user.ID, "second question")
	require.NoError(t, err)

	require.Equal(t, 2, env.completion.calls())
	second := env.completion.prompts[1]
	require.Contains(t, second, "User: first question")
	require.Contains(t, second, "AI: stay hydrated")
	require.True(t, strings.HasSuffix(second, "User: second question"))

	// Prior turns must precede the new prompt.
	require.Less(t, strings.Index(second, "first question"), strings.Index(second, "second question"))
}

func TestGetHealthAdviceDayRolloverDuringGatewayCall(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	ctx := context.Background()

	// The clock crosses midnight while the gateway call is in flight. The
	// assistant message must still join the session that admitted the user
	// message; no next-day session appears.
	env.completion.answer = "midnight answer"
	env.completion.onComplete = func() { env.now = env.now.Add(15 * time.Hour) }

	answer, err := env.advice.GetHealthAdvice(ctx, user.ID, "evening question")
	require.NoError(t, err)
	require.Equal(t, "midnight answer", answer)

	all, ferr := env.sessions.FindForUserBefore(ctx, user.ID, env.now.AddDate(0, 0, 2))
	require.NoError(t, ferr)
	require.Len(t, all, 1, "a single advice turn must never span two sessions")
	require.Contains(t, all[0].Title, "2026-03-14", "the session belongs to the day the turn started")

	messages, merr := env.messages.ListBySession(ctx, all[0].ID)
	require.NoError(t, merr)
	require.Len(t, messages, 2)
	require.True(t, messages[0].IsUserMessage)
	require.False(t, messages[1].IsUserMessage)
	require.Equal(t, "midnight answer", messages[1].Content)
}

func TestGetHealthAdviceGatewayFailureKeepsUserMessage(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	ctx := context.Background()
	env.completion.err = errors.GatewayError("provider unreachable", nil)

	_, err := env.advice.GetHealthAdvice(ctx, user.ID, "is this persisted?")
	require.True(t, errors.HasCode(err, errors.CodeGatewayError))

	start, end := models.DayWindow(env.now)
	sessions, ferr := env.sessions.FindForUserInWindow(ctx, user.ID, start, end)
	require.NoError(t, ferr)
	require.Len(t, sessions, 1)

	messages, merr := env.messages.ListBySession(ctx, sessions[0].ID)
	require.NoError(t, merr)
	require.Len(t, messages, 1, "the user message stays, no assistant message is written")
	require.True(t, messages[0].IsUserMessage)

	// The failed attempt still counted toward quota.
	count, cerr := env.messages.CountUserMessagesInWindow(ctx, user.ID, start, end)
	require.NoError(t, cerr)
	require.Equal(t, int64(1), count)
}

func TestGetHealthAdviceQuotaDenialPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	ctx := context.Background()
	seedUserMessages(t, env, user.ID, 5)

	_, err := env.advice.GetHealthAdvice(ctx, user.ID, "one more?")
	require.True(t, errors.HasCode(err, errors.CodeQuotaExceeded))
	require.Equal(t, 0, env.completion.calls(), "denied requests never reach the gateway")

	start, end := models.DayWindow(env.now)
	count, cerr := env.messages.CountUserMessagesInWindow(ctx, user.ID, start, end)
	require.NoError(t, cerr)
	require.Equal(t, int64(5), count)
}

func TestGetHealthAdviceEmptyPrompt(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := env.advice.GetHealthAdvice(context.Background(), user.ID, prompt)
		require.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	}
	require.Equal(t, 0, env.completion.calls())
}

func TestGetHealthAdviceUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.advice.GetHealthAdvice(context.Background(), 42, "hello")
	require.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestGetHealthAdviceHardCapUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)

	const attempts = 12
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := env.advice.GetHealthAdvice(context.Background(), user.ID, "concurrent question")
			results <- err
		}()
	}

	var ok, denied int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			ok++
		} else if errors.HasCode(err, errors.CodeQuotaExceeded) {
			denied++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 5, ok, "exactly the plan limit must be admitted")
	require.Equal(t, attempts-5, denied)

	start, end := models.DayWindow(env.now)
	count, err := env.messages.CountUserMessagesInWindow(context.Background(), user.ID, start, end)
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
}
