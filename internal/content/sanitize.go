// Package content cleans user-supplied card text before it reaches the store.
package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/studydev/studydev/internal/domain"
)

// Fields are the free-text parts of a card.
type Fields struct {
	Subject string
	Front   string
	Back    string
	Tags    []string
}

// Sanitizer strips markup from card text. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer using bluemonday's strict policy:
// every element is removed and only text content is kept.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes all markup from s and trims surrounding whitespace.
// Entities produced by the policy are decoded so "a < b" survives as typed.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

// Field sanitises a required value; an empty result yields domain.ErrEmptyContent.
func (s *Sanitizer) Field(name, in string) (string, error) {
	out := s.Text(in)
	if out == "" {
		return "", fmt.Errorf("%w: %s is empty or unsafe", domain.ErrEmptyContent, name)
	}
	return out, nil
}

// Tags sanitises each tag and normalises the list; tags that end up empty are dropped.
func (s *Sanitizer) Tags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		cleaned = append(cleaned, s.Text(t))
	}
	return domain.NormalizeTags(cleaned)
}

// Card sanitises all fields of a card at once.
func (s *Sanitizer) Card(in Fields) (Fields, error) {
	var (
		out Fields
		err error
	)
	if out.Subject, err = s.Field("subject", in.Subject); err != nil {
		return Fields{}, err
	}
	if out.Front, err = s.Field("front", in.Front); err != nil {
		return Fields{}, err
	}
	if out.Back, err = s.Field("back", in.Back); err != nil {
		return Fields{}, err
	}
	out.Tags = s.Tags(in.Tags)
	return out, nil
}
