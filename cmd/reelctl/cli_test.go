package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/services"
	"reelcraft/internal/testutil"
	"reelcraft/pkg/utils"
)

type cliEnv struct {
	app   *app
	clock *utils.FixedClock
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	db := testutil.NewDB(t)
	logger, _ := testutil.NewLogger()
	clock := &utils.FixedClock{T: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	signer := utils.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return &cliEnv{app: newApp(db, signer, clock, logger), clock: clock}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(func() (*app, error) { return e.app, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAccountsCreateAndSessionsIssue(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "accounts", "create", "--email", "Ops@Example.com", "--name", "Ops")
	require.NoError(t, err)
	var account map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &account))
	assert.Equal(t, "ops@example.com", account["email"])

	out, err = env.run(t, "sessions", "issue", "--email", "ops@example.com")
	require.NoError(t, err)
	var session map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &session))
	assert.Equal(t, "sk_"+account["id"].(string), session["api_key"])
	assert.NotEmpty(t, session["token"])

	p, err := env.app.identity.Resolve(context.Background(), session["token"])
	require.NoError(t, err)
	assert.Equal(t, services.CredentialSession, p.Credential)

	_, err = env.run(t, "sessions", "issue", "--email", "nobody@example.com")
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}

func TestAccountsCreate_RequiresEmail(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "accounts", "create")
	assert.Error(t, err)
}

func TestConflictsListAndResolve(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	acc, _, err := env.app.accounts.EnsureAccount(ctx, "writer@example.com", "Writer")
	require.NoError(t, err)
	id := uuid.MustParse(acc.ID)
	for i := 0; i < 3; i++ {
		_, err := env.app.ledger.Debit(ctx, id, 1)
		require.NoError(t, err)
	}
	_, _, err = env.app.settlement.Settle(ctx, services.SettlementInput{
		AccountID: id,
		Cost:      1,
		Artifacts: services.ArtifactRefs{VideoURL: "https://cdn.example.com/v.mp4"},
		TraceID:   "trace-cli",
	})
	require.ErrorIs(t, err, utils.ErrSettlementConflict)

	out, err := env.run(t, "conflicts", "list")
	require.NoError(t, err)
	var conflicts []db_models.SettlementConflict
	require.NoError(t, json.Unmarshal([]byte(out), &conflicts))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "trace-cli", conflicts[0].TraceID)

	out, err = env.run(t, "conflicts", "resolve", conflicts[0].ID.String(), "--note", "refunded")
	require.NoError(t, err)
	assert.Contains(t, out, "resolved "+conflicts[0].ID.String())

	_, err = env.run(t, "conflicts", "resolve", "not-a-uuid", "--note", "x")
	assert.Error(t, err)

	out, err = env.run(t, "conflicts", "list")
	require.NoError(t, err)
	conflicts = nil
	require.NoError(t, json.Unmarshal([]byte(out), &conflicts))
	assert.Empty(t, conflicts)
}

func TestRolloverSweep(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	acc, _, err := env.app.accounts.EnsureAccount(ctx, "free@example.com", "")
	require.NoError(t, err)
	id := uuid.MustParse(acc.ID)
	_, err = env.app.ledger.Debit(ctx, id, 2)
	require.NoError(t, err)

	out, err := env.run(t, "rollover", "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled over 0 subscriptions")

	env.clock.Advance(services.CycleLength + time.Hour)
	out, err = env.run(t, "rollover", "sweep", "--batch", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled over 1 subscriptions")

	sub, err := env.app.ledger.GetSubscription(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, sub.UnitsUsed)
}
