// Package srs implements SM-2 spaced-repetition scheduling: ease and
// interval updates for a graded card, and selection of the cards due on a
// given date.
package srs
