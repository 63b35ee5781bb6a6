package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/service/card_review"
)

const qualityHelp = `  0  complete blackout
  1  wrong, remembered on seeing the answer
  2  wrong, but the answer felt familiar
  3  right, with serious difficulty
  4  right, after some hesitation
  5  perfect recall`

// sessionResult tallies an interactive review session.
type sessionResult struct {
	Reviewed int
	Correct  int
	Skipped  int
}

// Accuracy is the share of reviewed cards graded 3 or better, in percent.
func (r sessionResult) Accuracy() float64 {
	if r.Reviewed == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Reviewed) * 100
}

func runReview(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "review")
	subject := fs.StringP("subject", "s", "", "only review cards of this subject")
	limit := fs.IntP("limit", "n", c.cfg.Review.DefaultLimit, "maximum cards in the session, 0 for no limit")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *limit < 0 {
		return usageErrorf("--limit must not be negative")
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	cards, err := app.cardReviewService.DueCards(ctx, srs.DueFilter{Subject: *subject, Limit: *limit})
	if err != nil {
		return err
	}

	in := subjectSuffix(*subject)
	if len(cards) == 0 {
		fmt.Fprintf(c.stdout, "No flashcards due for review%s. You're all caught up!\n", in)
		return nil
	}

	fmt.Fprintf(c.stdout, "Review session: %d card(s) due%s\n", len(cards), in)

	session := &reviewSession{
		reviews: app.cardReviewService,
		in:      bufio.NewScanner(c.stdin),
		out:     c.stdout,
		logger:  c.logger,
	}
	result, err := session.run(ctx, cards)
	printSummary(c.stdout, result)
	return err
}

type reviewSession struct {
	reviews card_review.CardReviewService
	in      *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
}

// errQuit ends a session early at the user's request.
var errQuit = errors.New("quit")

func (s *reviewSession) run(ctx context.Context, cards []domain.Card) (sessionResult, error) {
	var result sessionResult

	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			return result, nil
		}

		fmt.Fprintf(s.out, "\nCard %d/%d - %s\n", i+1, len(cards), card.Subject)
		fmt.Fprintf(s.out, "Q: %s\n", card.Front)
		fmt.Fprint(s.out, "Press Enter to reveal the answer...")
		if _, ok := s.readLine(); !ok {
			fmt.Fprintln(s.out)
			return result, nil
		}
		fmt.Fprintf(s.out, "A: %s\n", card.Back)

		outcome, err := s.askQuality()
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return result, nil
		}
		if errors.Is(err, errSkip) {
			result.Skipped++
			continue
		}

		graded, err := s.reviews.SubmitAnswer(ctx, card.ID, card_review.ReviewAnswer{Outcome: outcome})
		if err != nil {
			return result, err
		}

		result.Reviewed++
		if outcome.IsLapse() {
			fmt.Fprintf(s.out, "Not this time. Next review: %s\n", dayCount(graded.IntervalDays))
		} else {
			result.Correct++
			fmt.Fprintf(s.out, "Correct! Next review: %s | Streak: %d | Ease: %.2f\n",
				dayCount(graded.IntervalDays), graded.Repetitions, graded.EaseFactor)
		}
	}
	return result, nil
}

// errSkip leaves the current card ungraded.
var errSkip = errors.New("skip")

// askQuality prompts until it reads a valid grade, "s" to skip or "q" to quit.
func (s *reviewSession) askQuality() (domain.ReviewOutcome, error) {
	for {
		fmt.Fprint(s.out, "How well did you recall it? [0-5, ? for help, s to skip, q to quit]: ")
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return 0, io.EOF
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "q", "quit":
			return 0, errQuit
		case "s", "skip":
			return 0, errSkip
		case "?", "h", "help":
			fmt.Fprintln(s.out, qualityHelp)
			continue
		}

		outcome, err := domain.ParseReviewOutcome(line)
		if err != nil {
			s.logger.Debug("rejected quality input", slog.String("input", line))
			fmt.Fprintln(s.out, "Please enter a number from 0 to 5.")
			continue
		}
		return outcome, nil
	}
}

func (s *reviewSession) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func printSummary(w io.Writer, r sessionResult) {
	fmt.Fprintln(w, "\nReview session complete!")
	if r.Reviewed == 0 {
		fmt.Fprintln(w, "No cards were graded.")
		return
	}

	fmt.Fprintf(w, "Score: %d/%d (%.1f%%)", r.Correct, r.Reviewed, r.Accuracy())
	if r.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", r.Skipped)
	}
	fmt.Fprintln(w)

	switch acc := r.Accuracy(); {
	case acc >= 80:
		fmt.Fprintln(w, "Excellent work! You're mastering these concepts.")
	case acc >= 60:
		fmt.Fprintln(w, "Good job! Keep reviewing to improve.")
	default:
		fmt.Fprintln(w, "Don't give up! Regular review is key to learning.")
	}
}

func dayCount(days int) string {
	if days == 1 {
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}

func subjectSuffix(subject string) string {
	if subject == "" {
		return ""
	}
	return " in " + subject
}
