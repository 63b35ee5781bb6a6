// Package domain contains the core study entities: flashcards, review
// outcomes and the review log. It has no knowledge of storage or delivery.
package domain
