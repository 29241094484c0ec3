package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"healthmini/internal/errors"
	"healthmini/models"
)

func seedUserMessages(t *testing.T, env *testEnv, userID int64, n int) *models.ChatSession {
	t.Helper()
	session := env.addSession(t, userID, env.now)
	for i := 0; i < n; i++ {
		env.addMessage(t, session.ID, "question", true, env.now)
		env.addMessage(t, session.ID, "answer", false, env.now)
	}
	return session
}

func TestCheckDailyLimitUnderLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	seedUserMessages(t, env, user.ID, 4)

	require.NoError(t, env.quota.CheckDailyLimit(context.Background(), user))
}

func TestCheckDailyLimitAtLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	seedUserMessages(t, env, user.ID, 5)

	err := env.quota.CheckDailyLimit(context.Background(), user)
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeQuotaExceeded))
	require.Contains(t, err.Error(), "5", "denial should state the plan limit")
}

func TestCheckDailyLimitCountsOnlyUserMessages(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	session := env.addSession(t, user.ID, env.now)

	// 4 user messages but 10 assistant messages: still admitted.
	for i := 0; i < 4; i++ {
		env.addMessage(t, session.ID, "question", true, env.now)
	}
	for i := 0; i < 10; i++ {
		env.addMessage(t, session.ID, "answer", false, env.now)
	}

	require.NoError(t, env.quota.CheckDailyLimit(context.Background(), user))
}

func TestCheckDailyLimitResetsAtMidnight(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	seedUserMessages(t, env, user.ID, 5)

	require.Error(t, env.quota.CheckDailyLimit(context.Background(), user))

	// The next calendar day starts a fresh count.
	env.now = env.now.AddDate(0, 0, 1)
	require.NoError(t, env.quota.CheckDailyLimit(context.Background(), user))
}

func TestCheckDailyLimitPerPlan(t *testing.T) {
	cases := []struct {
		plan  models.SubscriptionPlan
		limit int
	}{
		{models.PlanFree, 5},
		{models.PlanBasic, 10},
		{models.PlanPremium, 20},
	}

	for _, tc := range cases {
		t.Run(string(tc.plan), func(t *testing.T) {
			env := newTestEnv(t)
			user := env.addUser(t, tc.plan)
			session := seedUserMessages(t, env, user.ID, tc.limit-1)

			require.NoError(t, env.quota.CheckDailyLimit(context.Background(), user))

			env.addMessage(t, session.ID, "one more", true, env.now)
			err := env.quota.CheckDailyLimit(context.Background(), user)
			require.True(t, errors.HasCode(err, errors.CodeQuotaExceeded))
		})
	}
}

func TestCheckDailyLimitAdminUnlimited(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addUser(t, models.PlanAdmin)
	seedUserMessages(t, env, admin.ID, 200)

	require.NoError(t, env.quota.CheckDailyLimit(context.Background(), admin))
}

func TestCheckDailyLimitIgnoresOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, models.PlanFree)
	bob := env.addUser(t, models.PlanFree)
	seedUserMessages(t, env, bob.ID, 5)

	require.NoError(t, env.quota.CheckDailyLimit(context.Background(), alice))
}

func TestCheckDailyLimitWindowBoundaries(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)
	session := env.addSession(t, user.ID, env.now)

	start, end := models.DayWindow(env.now)
	// Yesterday's traffic does not count; a message at 23:59:59 today does.
	env.addMessage(t, session.ID, "late yesterday", true, start.Add(-time.Second))
	for i := 0; i < 4; i++ {
		env.addMessage(t, session.ID, "today", true, env.now)
	}
	env.addMessage(t, session.ID, "end of day", true, end)

	err := env.quota.CheckDailyLimit(context.Background(), user)
	require.True(t, errors.HasCode(err, errors.CodeQuotaExceeded))
}
