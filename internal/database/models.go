package database

// Article represents a deduplicated feed entry.
// PublishedAt and CreatedAt use DateTimeLayout; CreatedAt is assigned by the
// database on first insert and drives retention, PublishedAt is feed-supplied.
type Article struct {
	ID          int64
	URL         string
	Title       string
	Content     string
	PublishedAt string
	CreatedAt   string
}

// FetchLog status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// FetchLog is the write-once audit record of one ingestion run.
type FetchLog struct {
	ID            int64
	FetchedAt     string
	Status        string
	ArticlesCount int
	ErrorMessage  *string
	CreatedAt     string
}

// IsSuccess reports whether the run behind this log entry succeeded.
func (l *FetchLog) IsSuccess() bool {
	return l.Status == StatusSuccess
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles int
	TotalLogs     int
	FailedLogs    int
}
