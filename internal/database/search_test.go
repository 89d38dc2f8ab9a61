package database

import (
	"fmt"
	"testing"
)

func TestSearchNoFiltersReturnsAll(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/a", "A", "2025-11-10 08:00:00")
	mustInsert(t, db, "https://example.com/b", "B", "2025-11-20 08:00:00")

	page, err := db.SearchArticles(Filters{}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("expected total 2, got %d", page.TotalCount)
	}
	if len(page.Articles) != 2 {
		t.Errorf("expected 2 items, got %d", len(page.Articles))
	}
}

func TestSearchOrderedNewestFirst(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/old", "Old", "2025-11-10 08:00:00")
	mustInsert(t, db, "https://example.com/new", "New", "2025-11-30 08:00:00")
	mustInsert(t, db, "https://example.com/mid", "Mid", "2025-11-20 08:00:00")

	page, err := db.SearchArticles(Filters{}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"New", "Mid", "Old"}
	for i, title := range want {
		if page.Articles[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, page.Articles[i].Title)
		}
	}
}

func TestSearchByURL(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/a", "A", "2025-11-10 08:00:00")
	mustInsert(t, db, "https://example.com/ab", "AB", "2025-11-20 08:00:00")

	page, err := db.SearchArticles(Filters{URL: "https://example.com/a"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected exact match only, got %d", page.TotalCount)
	}
	if page.Articles[0].Title != "A" {
		t.Errorf("expected article A, got %q", page.Articles[0].Title)
	}
}

func TestSearchByDateRange(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/1", "Early", "2025-11-10 09:00:00")
	mustInsert(t, db, "https://example.com/2", "Middle", "2025-11-20 09:00:00")
	mustInsert(t, db, "https://example.com/3", "Late", "2025-11-30 09:00:00")

	page, err := db.SearchArticles(Filters{DateFrom: "2025-11-15", DateTo: "2025-11-25"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected exactly 1 match, got %d", page.TotalCount)
	}
	if page.Articles[0].Title != "Middle" {
		t.Errorf("expected the middle article, got %q", page.Articles[0].Title)
	}
}

func TestSearchDateBoundsAreInclusive(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/start", "Start", "2025-11-15 00:00:00")
	mustInsert(t, db, "https://example.com/end", "End", "2025-11-25 23:59:59")

	page, err := db.SearchArticles(Filters{DateFrom: "2025-11-15", DateTo: "2025-11-25"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("expected both boundary articles, got %d", page.TotalCount)
	}
}

func TestSearchByTitleFullText(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/laravel", "Laravel入門", "2025-11-20 09:00:00")
	mustInsert(t, db, "https://example.com/php", "PHP基礎", "2025-11-21 09:00:00")

	page, err := db.SearchArticles(Filters{Title: "Laravel"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected 1 match, got %d", page.TotalCount)
	}
	if page.Articles[0].Title != "Laravel入門" {
		t.Errorf("expected 'Laravel入門', got %q", page.Articles[0].Title)
	}
}

// Terms under three runes cannot use the trigram index and fall back to LIKE.
func TestSearchByTitleShortTerm(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/laravel", "Laravel入門", "2025-11-20 09:00:00")
	mustInsert(t, db, "https://example.com/php", "PHP基礎", "2025-11-21 09:00:00")

	page, err := db.SearchArticles(Filters{Title: "入門"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected 1 match, got %d", page.TotalCount)
	}
	if page.Articles[0].Title != "Laravel入門" {
		t.Errorf("expected 'Laravel入門', got %q", page.Articles[0].Title)
	}
}

func TestSearchTitleTermWithQuerySyntax(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/a", `Quote "AND" Title`, "2025-11-20 09:00:00")

	// FTS5 operators in the user term are treated literally, not as syntax.
	page, err := db.SearchArticles(Filters{Title: `"AND"`}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Errorf("expected 1 match, got %d", page.TotalCount)
	}
}

func TestSearchCombinedPredicates(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/early", "Laravel入門", "2025-11-10 09:00:00")
	mustInsert(t, db, "https://example.com/late", "Laravel実践", "2025-11-25 09:00:00")
	mustInsert(t, db, "https://example.com/php", "PHP基礎", "2025-11-25 10:00:00")

	page, err := db.SearchArticles(Filters{Title: "Laravel", DateFrom: "2025-11-15"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected intersection of title and date, got %d", page.TotalCount)
	}
	if page.Articles[0].Title != "Laravel実践" {
		t.Errorf("expected 'Laravel実践', got %q", page.Articles[0].Title)
	}
}

func TestSearchPagination(t *testing.T) {
	db := openTestDB(t)
	for i := 1; i <= 25; i++ {
		mustInsert(t, db,
			fmt.Sprintf("https://example.com/p/%d", i),
			fmt.Sprintf("Article %d", i),
			fmt.Sprintf("2025-11-01 %02d:00:00", i%24))
	}

	page1, err := db.SearchArticles(Filters{}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1.Articles) != 20 {
		t.Errorf("expected 20 items on page 1, got %d", len(page1.Articles))
	}
	if page1.TotalCount != 25 {
		t.Errorf("expected total 25, got %d", page1.TotalCount)
	}
	if page1.TotalPages != 2 {
		t.Errorf("expected 2 total pages, got %d", page1.TotalPages)
	}

	page2, err := db.SearchArticles(Filters{}, 2, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Articles) != 5 {
		t.Errorf("expected 5 items on page 2, got %d", len(page2.Articles))
	}
}

func TestSearchOutOfRangePage(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/a", "A", "2025-11-10 08:00:00")

	page, err := db.SearchArticles(Filters{}, 7, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Articles) != 0 {
		t.Errorf("expected empty item list, got %d", len(page.Articles))
	}
	if page.TotalCount != 1 {
		t.Errorf("expected valid total 1, got %d", page.TotalCount)
	}
	if page.Page != 7 {
		t.Errorf("expected requested page echoed, got %d", page.Page)
	}
}

func TestSearchDeletedArticleLeavesIndex(t *testing.T) {
	db := openTestDB(t)
	mustInsert(t, db, "https://example.com/laravel", "Laravel入門", "2025-11-20 09:00:00")
	backdate(t, db, "articles", "2020-01-01 00:00:00")

	if _, err := db.DeleteArticlesOlderThan("2024-01-01 00:00:00", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The delete trigger must keep the FTS index consistent.
	page, err := db.SearchArticles(Filters{Title: "Laravel"}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 0 {
		t.Errorf("expected 0 matches after deletion, got %d", page.TotalCount)
	}
}
