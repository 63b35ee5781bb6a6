package main

import (
	"context"
	"fmt"

	"github.com/studydev/studydev/internal/domain/srs"
)

func runDue(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "due")
	subject := fs.StringP("subject", "s", "", "only list cards of this subject")
	limit := fs.IntP("limit", "n", 0, "maximum number of cards, 0 for no limit")
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
	if len(cards) == 0 {
		fmt.Fprintf(c.stdout, "No flashcards due for review%s.\n", subjectSuffix(*subject))
		return nil
	}

	if err := printCardTable(c.stdout, cards); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "\nStart a session with: studydev review%s\n", subjectFlag(*subject))
	return nil
}

func runStats(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "stats")
	subject := fs.StringP("subject", "s", "", "only count cards of this subject")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	stats, err := app.statsService.Stats(ctx, *subject)
	if err != nil {
		return err
	}

	if *subject != "" {
		fmt.Fprintf(c.stdout, "Flashcard stats - %s\n", *subject)
	} else {
		fmt.Fprintln(c.stdout, "Overall flashcard stats")
	}
	if err := printStats(c.stdout, stats); err != nil {
		return err
	}
	if stats.Due > 0 {
		fmt.Fprintf(c.stdout, "\nReady for review! Run: studydev review%s\n", subjectFlag(*subject))
	}
	return nil
}

func runSubjects(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "subjects")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	rows, err := app.statsService.SubjectBreakdown(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.stdout, "No flashcards found. Add some with: studydev card add")
		return nil
	}
	return printBreakdown(c.stdout, rows)
}

func subjectFlag(subject string) string {
	if subject == "" {
		return ""
	}
	return fmt.Sprintf(" --subject %q", subject)
}
