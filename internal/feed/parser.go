package feed

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mmcdole/gofeed"
)

// ErrNoValidItems is returned when a well-formed document yields zero usable
// items, either because it was empty or every item was skipped.
var ErrNoValidItems = errors.New("no valid items found in feed")

// Candidate is a parsed-but-not-yet-persisted feed entry. PubDate carries the
// feed's raw publication date string; NormalizePubDate converts it before
// storage.
type Candidate struct {
	URL     string
	Title   string
	Content string
	PubDate string
}

// Parser turns a feed document into candidate items. Items missing a required
// field are skipped without aborting the batch.
type Parser struct {
	parser *gofeed.Parser
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{parser: gofeed.NewParser()}
}

// Parse parses a whole feed document. A document that cannot be parsed at all
// fails; individual items missing link, title or publication date are logged
// and skipped. Zero surviving items is a failure (ErrNoValidItems).
func (p *Parser) Parse(document []byte) ([]Candidate, error) {
	parsed, err := p.parser.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("malformed feed document: %w", err)
	}

	var candidates []Candidate
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		link := strings.TrimSpace(item.Link)
		title := strings.TrimSpace(item.Title)
		if link == "" || title == "" || item.Published == "" {
			log.Printf("skipping feed item missing required fields (link=%q, title=%q)", link, title)
			continue
		}

		candidates = append(candidates, Candidate{
			URL:     link,
			Title:   title,
			Content: strings.TrimSpace(item.Description),
			PubDate: item.Published,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoValidItems
	}
	return candidates, nil
}
