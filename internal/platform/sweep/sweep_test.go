package sweep_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/platform/logger"
	"github.com/phrazzld/flashcards/internal/platform/sqlite"
	"github.com/phrazzld/flashcards/internal/platform/sweep"
	"github.com/phrazzld/flashcards/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newSweeper(t *testing.T, interval time.Duration) (*sweep.Sweeper, *logger.TestLogBuffer, func(front, next string) *domain.Card) {
	t.Helper()
	db := testdb.OpenSQLite(t)
	log, buf := logger.NewTestLogger()
	cards := sqlite.NewSQLiteCardStore(db, log)

	create := func(front, next string) *domain.Card {
		card, err := domain.NewCard(front, "a", testNow.Add(-time.Hour))
		require.NoError(t, err)
		card.NextReview = next
		require.NoError(t, cards.Create(context.Background(), card))
		return card
	}

	s := sweep.New(cards, interval, log, sweep.WithClock(func() time.Time { return testNow }))
	return s, buf, create
}

func TestRunReportsDueAndStranded(t *testing.T) {
	t.Parallel()
	s, buf, create := newSweeper(t, time.Hour)

	assert.Nil(t, s.Last())

	create("due", domain.FormatTimestamp(testNow.Add(-time.Minute)))
	create("later", domain.FormatTimestamp(testNow.Add(time.Hour)))
	stranded := create("stranded", "not a timestamp")

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Due)
	assert.Equal(t, []uuid.UUID{stranded.ID}, report.Stranded)
	assert.Equal(t, testNow, report.At)
	assert.Same(t, report, s.Last())

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	var sawWarn, sawSummary bool
	for _, e := range entries {
		switch e["msg"] {
		case "card stranded: malformed next_review":
			sawWarn = true
			assert.Equal(t, "WARN", e["level"])
			assert.Equal(t, stranded.ID.String(), e["card_id"])
		case "due sweep completed":
			sawSummary = true
			assert.EqualValues(t, 1, e["stranded"])
		}
	}
	assert.True(t, sawWarn, "stranded card must be logged")
	assert.True(t, sawSummary)
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	t.Parallel()
	s, _, create := newSweeper(t, time.Hour)
	create("due", domain.FormatTimestamp(testNow.Add(-time.Minute)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.ErrorIs(t, s.Start(ctx), sweep.ErrAlreadyStarted)

	require.Eventually(t, func() bool { return s.Last() != nil }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.Last().Due)

	s.Stop()
	s.Stop()
}

func TestStopReleasesContextWatcher(t *testing.T) {
	t.Parallel()
	s, _, _ := newSweeper(t, time.Hour)

	first, cancelFirst := context.WithCancel(context.Background())
	require.NoError(t, s.Start(first))
	s.Stop()

	second, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()
	require.NoError(t, s.Start(second))
	defer s.Stop()

	// The watcher of the first run must already be gone: cancelling its
	// context must not stop the second run.
	cancelFirst()
	assert.Never(t, func() bool {
		return !errors.Is(s.Start(second), sweep.ErrAlreadyStarted)
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestStartRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()
	s, _, _ := newSweeper(t, 0)
	assert.Error(t, s.Start(context.Background()))
}
