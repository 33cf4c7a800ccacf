package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phrazzld/flashcards/internal/domain"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/phrazzld/flashcards/internal/events"
	"github.com/phrazzld/flashcards/internal/service/card_review"
	"github.com/phrazzld/flashcards/internal/session"
	"github.com/phrazzld/flashcards/internal/store"
)

const helpText = "f flip | 1 easy, 2 medium, 3 hard | n next | p prev | r refresh | q quit"

// ratingKeys maps the keys accepted on the back of a card to ratings.
var ratingKeys = map[string]domain.ReviewRating{
	"1": domain.ReviewRatingEasy,
	"2": domain.ReviewRatingMedium,
	"3": domain.ReviewRatingHard,
}

// studyLoop reads one command per line from in and renders the session to out.
type studyLoop struct {
	cards   store.CardStore
	reviews card_review.CardReviewService
	counter *events.Counter
	due     *srs.DueFilter
	now     func() time.Time
	in      io.Reader
	out     io.Writer

	session *session.Session
}

// Run loads the due cards and processes commands until q, end of input or
// until no cards remain.
func (l *studyLoop) Run(ctx context.Context) error {
	if err := l.load(ctx); err != nil {
		return err
	}
	defer l.summary()

	if l.session.Empty() {
		l.println(session.ErrNothingToReview.Error())
		return nil
	}
	l.println(helpText)
	l.render()

	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		quit, err := l.handle(ctx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
		if l.session.Empty() {
			l.println(session.ErrNothingToReview.Error())
			return nil
		}
		l.render()
	}
	return scanner.Err()
}

// handle applies one command. It returns true when the loop should stop.
// Only store failures are returned as errors; bad input is reported inline.
func (l *studyLoop) handle(ctx context.Context, cmd string) (bool, error) {
	switch cmd {
	case "q":
		return true, nil
	case "n":
		l.session.Next()
	case "p":
		l.session.Prev()
	case "r":
		return false, l.refresh(ctx)
	case "f":
		if _, err := l.session.Flip(); err != nil {
			l.println(err.Error())
		}
	case "1", "2", "3":
		return false, l.review(ctx, ratingKeys[cmd])
	default:
		l.println(helpText)
	}
	return false, nil
}

// review submits rating for the current card and reloads the due cards.
func (l *studyLoop) review(ctx context.Context, rating domain.ReviewRating) error {
	req, err := l.session.SubmitReview(rating)
	if err != nil {
		l.println(err.Error())
		return nil
	}

	card, err := l.reviews.SubmitReview(ctx, req.CardID, req.Rating)
	if err != nil {
		if errors.Is(err, card_review.ErrCardNotFound) {
			l.println("card no longer exists")
			return l.refresh(ctx)
		}
		return err
	}
	l.printf("%s: next review %s\n", req.Rating, card.NextReview)
	return l.refresh(ctx)
}

func (l *studyLoop) load(ctx context.Context) error {
	cards, err := l.cards.List(ctx, store.CardFilter{})
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	l.session = session.New(cards, l.now(), l.isDue(ctx))
	return nil
}

// isDue adapts the due filter to the session, so every card excluded for a
// malformed next_review is logged.
func (l *studyLoop) isDue(ctx context.Context) session.DueFunc {
	return func(card *domain.Card, now time.Time) bool {
		return l.due.IsDue(ctx, card, now)
	}
}

func (l *studyLoop) refresh(ctx context.Context) error {
	cards, err := l.cards.List(ctx, store.CardFilter{})
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	l.session.Refresh(cards, l.now())
	return nil
}

func (l *studyLoop) render() {
	st, err := l.session.Current()
	if err != nil {
		return
	}
	text := st.Card.Front
	if st.Side == domain.SideBack {
		text = st.Card.Back
	}
	l.printf("[%d/%d] %s: %s\n", l.session.Cursor()+1, l.session.Len(), st.Side, text)
}

func (l *studyLoop) summary() {
	if l.counter == nil {
		return
	}
	l.printf("reviewed %d card(s)\n", l.counter.Count(events.CardReviewed))
}

func (l *studyLoop) println(s string) {
	_, _ = fmt.Fprintln(l.out, s)
}

func (l *studyLoop) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}
