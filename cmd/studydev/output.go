package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/service"
)

// frontWidth bounds the question column in card tables.
const frontWidth = 48

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printCardTable(w io.Writer, cards []domain.Card) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSUBJECT\tFRONT\tDUE\tREPS\tEASE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%.2f\n",
			c.ID, c.Subject, truncate(c.Front, frontWidth),
			c.DueDate.Format(domain.DateLayout), c.Repetitions, c.EaseFactor)
	}
	return tw.Flush()
}

func printCard(w io.Writer, c *domain.Card, now time.Time) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", c.ID)
	fmt.Fprintf(tw, "Subject:\t%s\n", c.Subject)
	fmt.Fprintf(tw, "Front:\t%s\n", c.Front)
	fmt.Fprintf(tw, "Back:\t%s\n", c.Back)
	if len(c.Tags) > 0 {
		fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintf(tw, "Due:\t%s (%s)\n", c.DueDate.Format(domain.DateLayout), dueLabel(c.DueDate, now))
	fmt.Fprintf(tw, "Interval:\t%d day(s)\n", c.IntervalDays)
	fmt.Fprintf(tw, "Ease:\t%.2f\n", c.EaseFactor)
	fmt.Fprintf(tw, "Streak:\t%d\n", c.Repetitions)
	fmt.Fprintf(tw, "Reviews:\t%d\n", c.ReviewCount)
	if c.LastReviewedAt != nil {
		fmt.Fprintf(tw, "Last reviewed:\t%s\n", humanize.RelTime(*c.LastReviewedAt, now, "ago", "from now"))
	} else {
		fmt.Fprintf(tw, "Last reviewed:\tnever\n")
	}
	fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.Format(domain.DateLayout))
	return tw.Flush()
}

// dueLabel describes a due date relative to the calendar date of now.
func dueLabel(due, now time.Time) string {
	days := int(due.Sub(domain.Date(now)).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -days)
	}
}

func printStats(w io.Writer, s service.DeckStats) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total cards:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Due for review:\t%d\n", s.Due)
	fmt.Fprintf(tw, "Average streak:\t%.2f\n", s.AverageRepetitions)
	fmt.Fprintf(tw, "Mastery rate:\t%.1f%%\n", s.MasteryRate)
	fmt.Fprintf(tw, "Reviews (24h):\t%d\n", s.ReviewsLast24h)
	fmt.Fprintf(tw, "Lapses (24h):\t%d\n", s.LapsesLast24h)
	return tw.Flush()
}

func printBreakdown(w io.Writer, rows []service.DeckStats) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SUBJECT\tTOTAL\tDUE\tMASTERY")
	for _, s := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", s.Subject, s.Total, s.Due, s.MasteryRate)
	}
	return tw.Flush()
}
