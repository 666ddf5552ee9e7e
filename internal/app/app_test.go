package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopicBridge/internal/config"
	"TopicBridge/internal/domain"
	"TopicBridge/internal/infrastructure/scheduler"
)

type stubClient struct {
	fail bool
}

func (s stubClient) Summarize(_ context.Context, query string, _ domain.Profile) (domain.Record, error) {
	if s.fail {
		return domain.Record{}, errors.New("upstream down")
	}
	return domain.Record{Title: strings.ToUpper(query), Category: domain.CategorySociety, Summary: "short take"}, nil
}

func (s stubClient) DeepDive(context.Context, string, domain.Record, domain.Profile) (domain.DeepDive, error) {
	return domain.DeepDive{PerspectiveSummary: "several views"}, nil
}

type quietProbe struct{}

func (quietProbe) HasNewContent(context.Context) (bool, error) { return false, nil }

func newTestApp(t *testing.T, client stubClient) *Application {
	t.Helper()
	a, err := New(context.Background(), config.Config{}, nil, Deps{
		Client: client,
		Probe:  quietProbe{},
		Clock:  scheduler.NewManualClock(time.Date(2024, time.October, 25, 10, 42, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return a
}

func TestConsoleSession(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, stubClient{})
	script := strings.Join([]string{
		"topics",
		"search ocean plastics",
		"fav",
		"status",
		"open 6",
		"report",
		"incentives",
		"bogus",
		"quit",
		"topics",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, a.Run(context.Background(), strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "Global AI Regulation Summit 2024")
	assert.Contains(t, text, "OCEAN PLASTICS (Society)")
	assert.Contains(t, text, "added ")
	assert.Contains(t, text, "view: detail  reads: 1  favorites: 1")
	assert.Contains(t, text, "cocoon score:")
	assert.Regexp(t, `reads\s+2/20`, text)
	assert.Contains(t, text, `unknown command "bogus"`)

	assert.Len(t, a.Session().History(), 2)
	assert.Len(t, a.Session().Topics(), 13)
}

func TestConsoleReportsStageOneFailure(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, stubClient{fail: true})

	var out bytes.Buffer
	require.NoError(t, a.Run(context.Background(), strings.NewReader("search anything\nquit\n"), &out))

	assert.Contains(t, out.String(), "Unable to analyze this topic.")
	assert.Empty(t, a.Session().Snapshot().SearchError)
	assert.Empty(t, a.Session().History())
}

func TestConsoleEventsWithoutJournal(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, stubClient{})

	var out bytes.Buffer
	require.NoError(t, a.Run(context.Background(), strings.NewReader("events\n"), &out))
	assert.Contains(t, out.String(), "journal is not configured")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, stubClient{})
	ctx, cancel := context.WithCancel(context.Background())

	blocking, writer := io.Pipe()
	defer writer.Close()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, blocking, &bytes.Buffer{}) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestProfileFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.MembershipPro, profileFromConfig(config.ProfileConfig{Membership: "Pro"}).Membership)
	assert.Equal(t, domain.MembershipFree, profileFromConfig(config.ProfileConfig{Membership: "gold"}).Membership)
}
