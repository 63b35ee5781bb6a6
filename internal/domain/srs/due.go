package srs

import (
	"sort"
	"time"

	"github.com/studydev/studydev/internal/domain"
)

// DueFilter narrows a due-set selection. The zero value selects every due
// card.
type DueFilter struct {
	Subject string // exact subject match when non-empty
	Limit   int    // maximum number of cards when > 0
}

// SelectDue returns the cards eligible for review on the date of now, most
// overdue first, with ties broken by ascending ID.
//
// The filter is applied before sorting and the limit after it. The input
// slice is never reordered or modified; each call recomputes from its
// arguments.
func SelectDue(cards []domain.Card, now time.Time, filter DueFilter) []domain.Card {
	today := domain.Date(now)

	due := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.DueDate.After(today) {
			continue
		}
		if filter.Subject != "" && card.Subject != filter.Subject {
			continue
		}
		due = append(due, card.Clone())
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(due[j].DueDate) {
			return due[i].DueDate.Before(due[j].DueDate)
		}
		return due[i].ID < due[j].ID
	})

	if filter.Limit > 0 && len(due) > filter.Limit {
		due = due[:filter.Limit]
	}

	return due
}
