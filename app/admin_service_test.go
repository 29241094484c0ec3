package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"healthmini/internal/errors"
	"healthmini/models"
)

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.adminSvc.CreateAdmin(ctx, "ops@example.com", "admin-password")
	require.NoError(t, err)
	require.Equal(t, models.PlanAdmin, admin.SubscriptionPlan)
	require.Equal(t, "admin", admin.Role)
	require.True(t, admin.EmailVerified, "admins skip email verification")

	_, err = env.adminSvc.CreateAdmin(ctx, "ops@example.com", "other-password")
	require.True(t, errors.HasCode(err, errors.CodeAlreadyExists))
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, models.PlanFree)
	env.addUser(t, models.PlanPremium)

	users, err := env.adminSvc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestUsageSummaryAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Three active users today: 1, 2 and 3 user messages. Assistant messages
	// and idle users stay out of the aggregates.
	for _, n := range []int{1, 2, 3} {
		user := env.addUser(t, models.PlanPremium)
		session := env.addSession(t, user.ID, env.now)
		for j := 0; j < n; j++ {
			env.addMessage(t, session.ID, "q", true, env.now)
			env.addMessage(t, session.ID, "a", false, env.now)
		}
	}
	env.addUser(t, models.PlanFree) // never sent anything

	summary, err := env.adminSvc.UsageSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.ActiveUsers)
	require.Equal(t, int64(6), summary.TotalMessages)
	require.InDelta(t, 2.0, summary.MeanPerUser, 1e-9)
	require.InDelta(t, 2.0, summary.MedianPerUser, 1e-9)
	require.InDelta(t, 3.0, summary.MaxPerUser, 1e-9)
	require.NotEmpty(t, summary.GeneratedAtISO)
}

func TestUsageSummaryExcludesOtherDays(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, models.PlanFree)

	yesterday := env.addSession(t, user.ID, env.now.AddDate(0, 0, -1))
	env.addMessage(t, yesterday.ID, "old", true, yesterday.CreatedAt)

	summary, err := env.adminSvc.UsageSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, summary.ActiveUsers)
	require.Equal(t, int64(0), summary.TotalMessages)
}

func TestUsageSummaryEmpty(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.adminSvc.UsageSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, summary.ActiveUsers)
	require.Zero(t, summary.MeanPerUser)
}
