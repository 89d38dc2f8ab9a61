package search

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/newsfeedjp/newswatch/internal/database"
)

// Params is the sparse predicate set accepted by the search entry point.
// All fields are optional; empty fields impose no constraint. Dates use
// database.DateLayout (calendar dates, e.g. "2025-11-01").
type Params struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// IsZero reports whether no predicate is set.
func (p Params) IsZero() bool {
	return p.URL == "" && p.Title == "" && p.DateFrom == "" && p.DateTo == ""
}

// Validate rejects malformed predicate input before any query runs:
// dates must match database.DateLayout exactly, and date_to must not be
// earlier than date_from.
func (p Params) Validate() error {
	if p.DateFrom != "" && !validDate(p.DateFrom) {
		return fmt.Errorf("invalid date_from %q: expected format %s", p.DateFrom, database.DateLayout)
	}
	if p.DateTo != "" && !validDate(p.DateTo) {
		return fmt.Errorf("invalid date_to %q: expected format %s", p.DateTo, database.DateLayout)
	}
	if p.DateFrom != "" && p.DateTo != "" && p.DateTo < p.DateFrom {
		return fmt.Errorf("date_to %s must not be earlier than date_from %s", p.DateTo, p.DateFrom)
	}
	return nil
}

// validDate requires a strict calendar date; time.Parse alone accepts
// unpadded components, so the round trip is checked too.
func validDate(s string) bool {
	t, err := time.Parse(database.DateLayout, s)
	return err == nil && t.Format(database.DateLayout) == s
}

// ConditionStore is the key-value substrate that remembers the last-used
// search conditions. *database.DB satisfies it.
type ConditionStore interface {
	GetCondition(key string) (value string, ok bool, err error)
	PutCondition(key, value string) error
	ForgetCondition(key string) error
}

// Service runs validated, paginated searches over the article corpus and
// manages the saved-conditions cache.
type Service struct {
	db      *database.DB
	store   ConditionStore
	key     string
	perPage int
}

// NewService creates a search service. sessionKey scopes the saved conditions
// in the store; perPage is the fixed page size.
func NewService(db *database.DB, store ConditionStore, sessionKey string, perPage int) *Service {
	return &Service{db: db, store: store, key: sessionKey, perPage: perPage}
}

// Search validates the predicates and returns one page of matching articles,
// newest first. Page numbers are 1-based.
func (s *Service) Search(p Params, page int) (*database.ArticlePage, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	filters := database.Filters{
		URL:      p.URL,
		Title:    p.Title,
		DateFrom: p.DateFrom,
		DateTo:   p.DateTo,
	}
	return s.db.SearchArticles(filters, page, s.perPage)
}

// SaveConditions persists the predicates for the next invocation. Empty
// fields are stripped before storing.
func (s *Service) SaveConditions(p Params) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding search conditions: %w", err)
	}
	return s.store.PutCondition(s.key, string(data))
}

// LoadConditions returns the previously saved predicates, or an empty set
// when nothing was ever saved.
func (s *Service) LoadConditions() (Params, error) {
	value, ok, err := s.store.GetCondition(s.key)
	if err != nil {
		return Params{}, err
	}
	if !ok {
		return Params{}, nil
	}

	var p Params
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return Params{}, fmt.Errorf("decoding saved search conditions: %w", err)
	}
	return p, nil
}

// ClearConditions forgets the saved predicates.
func (s *Service) ClearConditions() error {
	return s.store.ForgetCondition(s.key)
}
