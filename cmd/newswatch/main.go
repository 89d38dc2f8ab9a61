package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsfeedjp/newswatch/internal/config"
	"github.com/newsfeedjp/newswatch/internal/database"
	"github.com/newsfeedjp/newswatch/internal/ingest"
	"github.com/newsfeedjp/newswatch/internal/search"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newswatch",
	Short:   "News feed aggregator with full-text search",
	Long:    "Newswatch periodically ingests a news feed into SQLite and provides filtered, paginated search over the stored articles.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(cleanupCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newswatch", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newswatch/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure the feed URL, retries, and retention.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and feed fetch status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Articles:")
		fmt.Printf("  Total stored: %d\n", stats.TotalArticles)
		fmt.Println("\nFetch log:")
		fmt.Printf("  Total runs: %d\n", stats.TotalLogs)
		fmt.Printf("  Failed runs: %d\n", stats.FailedLogs)

		latest, err := db.LatestFetchLog()
		if err != nil {
			return err
		}
		if latest == nil {
			fmt.Println("\nNo ingestion run recorded yet.")
			return nil
		}

		health := "unhealthy"
		if latest.IsSuccess() {
			health = "healthy"
		}
		fmt.Printf("\nLatest run: %s (%s, %s)\n", latest.FetchedAt, latest.Status, health)
		if latest.ErrorMessage != nil {
			fmt.Printf("  Error: %s\n", *latest.ErrorMessage)
		}

		success, err := db.LatestSuccessFetchLog()
		if err != nil {
			return err
		}
		if success != nil {
			fmt.Printf("Latest success: %s (%d new articles)\n", success.FetchedAt, success.ArticlesCount)
		}
		return nil
	},
}

// --- fetch command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the configured feed and store new articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Printf("Fetching %s ...\n", cfg.Feed.URL)

		pipe := ingest.NewFromConfig(cfg, db)
		result := pipe.Run(context.Background())

		if !result.Success {
			return fmt.Errorf("feed ingestion failed: %s", result.Err)
		}

		fmt.Printf("Ingestion complete: %d new articles (%d duplicates, %d skipped)\n",
			result.Created, result.Duplicates, result.Skipped)
		return nil
	},
}

// --- search command ---

var (
	searchURL   string
	searchTitle string
	searchFrom  string
	searchTo    string
	searchPage  int
	searchClear bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored articles",
	Long: `Search stored articles by URL, title, and publication date range.
Invoking search without predicate flags reuses the conditions from the
previous search; passing any predicate flag replaces them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		svc := search.NewService(db, db, cfg.Search.SessionKey, cfg.Search.PerPage)

		if searchClear {
			if err := svc.ClearConditions(); err != nil {
				return err
			}
			fmt.Println("Saved search conditions cleared.")
			return nil
		}

		params := search.Params{
			URL:      searchURL,
			Title:    searchTitle,
			DateFrom: searchFrom,
			DateTo:   searchTo,
		}

		if params.IsZero() {
			// Restore the previous search when no predicates are given.
			params, err = svc.LoadConditions()
			if err != nil {
				return err
			}
		} else {
			if err := params.Validate(); err != nil {
				return err
			}
			if err := svc.SaveConditions(params); err != nil {
				return err
			}
		}

		page, err := svc.Search(params, searchPage)
		if err != nil {
			return err
		}

		if page.TotalCount == 0 {
			fmt.Println("No articles found.")
			return nil
		}

		for _, a := range page.Articles {
			fmt.Printf("%s  %s\n", a.PublishedAt, a.Title)
			fmt.Printf("            %s\n", a.URL)
		}
		fmt.Printf("\npage %d/%d (%d articles)\n", page.Page, page.TotalPages, page.TotalCount)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchURL, "url", "", "Exact article URL")
	searchCmd.Flags().StringVar(&searchTitle, "title", "", "Title search term")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Published on or after (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Published on or before (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Page number (1-based)")
	searchCmd.Flags().BoolVar(&searchClear, "clear", false, "Clear saved search conditions")
}

// --- cleanup commands ---

var (
	cleanupArticlesDryRun bool
	cleanupLogsDryRun     bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete rows older than the configured retention age",
}

var cleanupArticlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Delete articles past their retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		policy := cfg.Retention.Articles
		cutoff := retentionCutoff(policy.Days)
		fmt.Printf("Deleting articles created before %s\n", cutoff)

		count, err := db.CountArticlesOlderThan(cutoff)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("No articles to delete.")
			return nil
		}
		fmt.Printf("Candidates: %d\n", count)

		if cleanupArticlesDryRun {
			fmt.Println("[dry-run] nothing deleted")
			return nil
		}

		deleted, err := db.DeleteArticlesOlderThan(cutoff, policy.ChunkSize)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d articles.\n", deleted)
		return nil
	},
}

var cleanupLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Delete fetch log entries past their retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		policy := cfg.Retention.Logs
		cutoff := retentionCutoff(policy.Days)
		fmt.Printf("Deleting fetch logs created before %s\n", cutoff)

		count, err := db.CountFetchLogsOlderThan(cutoff)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("No fetch logs to delete.")
			return nil
		}
		fmt.Printf("Candidates: %d\n", count)

		if cleanupLogsDryRun {
			fmt.Println("[dry-run] nothing deleted")
			return nil
		}

		deleted, err := db.DeleteFetchLogsOlderThan(cutoff, policy.ChunkSize)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d fetch logs.\n", deleted)
		return nil
	},
}

func init() {
	cleanupArticlesCmd.Flags().BoolVar(&cleanupArticlesDryRun, "dry-run", false, "Report candidates without deleting")
	cleanupLogsCmd.Flags().BoolVar(&cleanupLogsDryRun, "dry-run", false, "Report candidates without deleting")
	cleanupCmd.AddCommand(cleanupArticlesCmd)
	cleanupCmd.AddCommand(cleanupLogsCmd)
}

// retentionCutoff converts a retention age in days into a created_at cutoff.
// created_at is written by SQLite in UTC, so the cutoff is too.
func retentionCutoff(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(database.DateTimeLayout)
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "newswatch.db")
	return database.Open(dbPath)
}
