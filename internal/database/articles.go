package database

import (
	"database/sql"
	"strings"
	"unicode/utf8"
)

// InsertArticle inserts an article unless one with the same URL already
// exists. Returns true when a new row was created. The insert is atomic at
// the URL granularity, so repeated runs against the same feed are idempotent.
func (db *DB) InsertArticle(url, title, content, publishedAt string) (bool, error) {
	result, err := db.conn.Exec(
		`INSERT INTO articles (url, title, content, published_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING`,
		url, title, content, publishedAt,
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetArticleByURL returns the article with the given URL, or nil.
func (db *DB) GetArticleByURL(url string) (*Article, error) {
	row := db.conn.QueryRow(
		`SELECT id, url, title, content, published_at, created_at
		FROM articles WHERE url = ?`, url,
	)
	var a Article
	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Content, &a.PublishedAt, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CountArticles returns the total number of stored articles.
func (db *DB) CountArticles() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM articles").Scan(&n)
	return n, err
}

// Filters is the sparse set of search predicates. Empty fields impose no
// constraint; active fields combine with AND. DateFrom and DateTo use
// DateLayout and bound published_at inclusively (start resp. end of day).
type Filters struct {
	URL      string
	Title    string
	DateFrom string
	DateTo   string
}

// IsZero reports whether no predicate is set.
func (f Filters) IsZero() bool {
	return f.URL == "" && f.Title == "" && f.DateFrom == "" && f.DateTo == ""
}

// scope is one predicate rendered as a WHERE fragment.
type scope struct {
	clause string
	args   []any
}

// scopes folds the active predicates into WHERE fragments.
func (f Filters) scopes() []scope {
	var s []scope
	if f.URL != "" {
		s = append(s, scope{"url = ?", []any{f.URL}})
	}
	if f.Title != "" {
		s = append(s, titleScope(f.Title))
	}
	if f.DateFrom != "" {
		s = append(s, scope{"published_at >= ?", []any{f.DateFrom + " 00:00:00"}})
	}
	if f.DateTo != "" {
		s = append(s, scope{"published_at <= ?", []any{f.DateTo + " 23:59:59"}})
	}
	return s
}

// titleScope matches titles through the trigram FTS index. The trigram
// tokenizer needs at least three runes, so shorter terms fall back to a LIKE
// scan over the title column.
func titleScope(title string) scope {
	if utf8.RuneCountInString(title) < 3 {
		pattern := "%" + escapeLike(title) + "%"
		return scope{`title LIKE ? ESCAPE '\'`, []any{pattern}}
	}
	return scope{
		"id IN (SELECT rowid FROM articles_fts WHERE articles_fts MATCH ?)",
		[]any{ftsPhrase(title)},
	}
}

// ftsPhrase quotes a user term as a single FTS5 phrase so query syntax
// characters in it are taken literally.
func ftsPhrase(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// ArticlePage is one page of search results with pagination metadata.
type ArticlePage struct {
	Articles   []Article
	TotalCount int
	Page       int
	PerPage    int
	TotalPages int
}

// SearchArticles runs a filtered, paginated query over the article corpus,
// newest first. Pages are 1-based; an out-of-range page yields an empty
// Articles slice but accurate totals.
func (db *DB) SearchArticles(f Filters, page, perPage int) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}

	var clauses []string
	var args []any
	for _, sc := range f.scopes() {
		clauses = append(clauses, sc.clause)
		args = append(args, sc.args...)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM articles"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	p := &ArticlePage{
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}

	query := `SELECT id, url, title, content, published_at, created_at FROM articles` +
		where + ` ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.URL, &a.Title, &a.Content, &a.PublishedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		p.Articles = append(p.Articles, a)
	}
	return p, rows.Err()
}
