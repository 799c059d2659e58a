package main

import (
	"context"
	"io"

	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/crawl"
	"github.com/mkowalski/docbase/fs"
	"github.com/mkowalski/docbase/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Targets  *docbase.TargetRegistry
	Pages    docbase.PageService
	Stats    docbase.StatsService
	ErrLogs  docbase.ErrorLogService
	Chunks   docbase.VectorIndex
	Indexer  docbase.IndexService
	Crawler  *crawl.Crawler
	Search   docbase.SearchService
	Asker    docbase.Asker
	Importer *fs.Importer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a target into the knowledge base"`
	Status  StatusCmd  `cmd:"" help:"Show knowledge base totals"`
	Stats   StatsCmd   `cmd:"" help:"Show statistics from the last completed crawl"`
	Search  SearchCmd  `cmd:"" help:"Search indexed chunks"`
	Ask     AskCmd     `cmd:"" help:"Ask a question against the knowledge base"`
	Targets TargetsCmd `cmd:"" help:"List available crawl targets"`
	Clear   ClearCmd   `cmd:"" help:"Delete a category's pages and chunks"`
	Import  ImportCmd  `cmd:"" help:"Import local documents into a category"`
	Errors  ErrorsCmd  `cmd:"" help:"List recent crawl errors"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Target   string `arg:"" help:"Target key (see 'docbase targets')"`
	MaxPages int    `short:"n" default:"100" help:"Maximum pages to visit"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search query"`
	Category string `help:"Restrict results to one target's category"`
	Topic    string `help:"Restrict results to one topic"`
	Limit    int    `short:"k" default:"5" help:"Maximum results"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask"`
	Category string `help:"Restrict context to one target's category"`
	Topic    string `help:"Restrict context to one topic"`
	Tone     string `default:"technical" enum:"formal,casual,technical" help:"Answer tone"`
	Length   string `default:"detailed" enum:"brief,detailed" help:"Answer length"`
}

// TargetsCmd is the "targets" subcommand.
type TargetsCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Category string `arg:"" help:"Category to delete"`
	Force    bool   `help:"Confirm deletion"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Dir      string `arg:"" help:"Directory to import"`
	Category string `arg:"" help:"Category to import into"`
}

// ErrorsCmd is the "errors" subcommand.
type ErrorsCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum errors to show"`
}
