package ingest

import (
	"context"
	"log"
	"time"

	"github.com/newsfeedjp/newswatch/internal/config"
	"github.com/newsfeedjp/newswatch/internal/database"
	"github.com/newsfeedjp/newswatch/internal/feed"
)

// Fetcher retrieves the raw feed document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Result is the structured outcome of one ingestion run.
type Result struct {
	Success    bool
	Created    int
	Duplicates int
	Skipped    int
	Err        string
}

// Pipeline orchestrates one ingestion run: fetch, parse, then store each
// candidate. A fetch or parse failure ends the run; item-level failures are
// skipped. Every invocation writes exactly one fetch log entry.
type Pipeline struct {
	fetcher Fetcher
	parser  *feed.Parser
	db      *database.DB
}

// New creates a pipeline around an arbitrary fetcher.
func New(fetcher Fetcher, db *database.DB) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		parser:  feed.NewParser(),
		db:      db,
	}
}

// NewFromConfig creates a pipeline with an HTTP fetcher built from config.
func NewFromConfig(cfg *config.Config, db *database.DB) *Pipeline {
	fetcher := feed.NewHTTPFetcher(
		cfg.Feed.URL,
		cfg.Feed.Timeout(),
		cfg.Feed.UserAgent,
		cfg.Feed.RetryCount,
		cfg.Feed.RetryDelay(),
	)
	return New(fetcher, db)
}

// Run executes one ingestion run to completion and records its outcome,
// timestamped at invocation start.
func (p *Pipeline) Run(ctx context.Context) *Result {
	fetchedAt := time.Now().Format(database.DateTimeLayout)
	result := p.run(ctx)
	p.recordLog(fetchedAt, result)
	return result
}

func (p *Pipeline) run(ctx context.Context) *Result {
	log.Println("fetching feed...")
	document, err := p.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("ingestion failed during fetch: %v", err)
		return &Result{Err: err.Error()}
	}

	log.Println("parsing feed document...")
	candidates, err := p.parser.Parse(document)
	if err != nil {
		log.Printf("ingestion failed during parse: %v", err)
		return &Result{Err: err.Error()}
	}

	log.Printf("storing %d candidate items...", len(candidates))
	result := p.store(candidates)
	log.Printf("ingestion complete: %d new, %d duplicates, %d skipped",
		result.Created, result.Duplicates, result.Skipped)
	return result
}

// store persists candidates one at a time. A candidate that fails date
// normalization or persistence is logged and skipped; the run still succeeds.
func (p *Pipeline) store(candidates []feed.Candidate) *Result {
	result := &Result{Success: true}

	for _, c := range candidates {
		publishedAt, err := feed.NormalizePubDate(c.PubDate)
		if err != nil {
			log.Printf("skipping item %s: %v", c.URL, err)
			result.Skipped++
			continue
		}

		created, err := p.db.InsertArticle(c.URL, c.Title, c.Content, publishedAt.Format(database.DateTimeLayout))
		if err != nil {
			log.Printf("skipping item %s: storing article: %v", c.URL, err)
			result.Skipped++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Duplicates++
		}
	}

	return result
}

func (p *Pipeline) recordLog(fetchedAt string, result *Result) {
	status := database.StatusSuccess
	var errorMessage *string
	if !result.Success {
		status = database.StatusFailure
		errorMessage = &result.Err
	}

	if _, err := p.db.InsertFetchLog(fetchedAt, status, result.Created, errorMessage); err != nil {
		log.Printf("recording fetch log: %v", err)
	}
}
