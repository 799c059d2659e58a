package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/mkowalski/docbase"
	"github.com/mkowalski/docbase/crawl"
	"github.com/mkowalski/docbase/fs"
	"github.com/mkowalski/docbase/gemini"
	"github.com/mkowalski/docbase/goquery"
	dochttp "github.com/mkowalski/docbase/http"
	"github.com/mkowalski/docbase/htmltomarkdown"
	"github.com/mkowalski/docbase/search"
	docslog "github.com/mkowalski/docbase/slog"
	"github.com/mkowalski/docbase/sqlite"
	"github.com/mkowalski/docbase/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PageService docbase.PageService
	VectorIndex docbase.VectorIndex
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docbase"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docbase --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCBASE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire core services into dependencies.
	m.PageService = sqlite.NewPageService(m.DB)
	m.VectorIndex = sqlite.NewVectorIndex(m.DB)
	deps.DB = m.DB
	deps.Targets = docbase.NewTargetRegistry()
	deps.Pages = m.PageService
	deps.Stats = sqlite.NewStatsService(m.DB)
	deps.ErrLogs = sqlite.NewErrorLogService(m.DB)
	deps.Chunks = m.VectorIndex

	// Commands that embed or generate need a Gemini client.
	var client *genai.Client
	switch cmd {
	case "crawl", "search", "ask", "import":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
	}

	if client != nil {
		embedder := gemini.NewEmbedder(client)
		deps.Indexer = docslog.NewLoggingIndexService(
			search.NewIndexer(embedder, deps.Chunks), logger)
		retriever := search.NewRetriever(embedder, deps.Chunks)
		deps.Search = retriever
		deps.Asker = search.NewAsker(retriever, gemini.NewGenerator(client))
	}

	if cmd == "crawl" {
		target, err := deps.Targets.Get(cli.Crawl.Target)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s. Use 'docbase targets' to see available targets.\n", docbase.ErrorMessage(err))
			return err
		}

		var opts []dochttp.Option
		if target.AuthMode != docbase.AuthNone {
			opts = append(opts, dochttp.WithCredentials(&dochttp.StaticCredentials{
				Username: os.Getenv("DOCBASE_USERNAME"),
				Password: os.Getenv("DOCBASE_PASSWORD"),
			}, target.AuthMode))
		}
		fetcher := docslog.NewLoggingFetcher(dochttp.NewFetcher(opts...), logger)
		defer fetcher.Close()

		jobs := crawl.NewJobs()
		cancelOnInterrupt(jobs)

		deps.Crawler = &crawl.Crawler{
			Targets:  deps.Targets,
			Fetcher:  fetcher,
			Parser:   goquery.NewDocumentParser(),
			Threads:  goquery.NewThreadParser(),
			Pages:    deps.Pages,
			Stats:    deps.Stats,
			Errors:   deps.ErrLogs,
			Indexer:  deps.Indexer,
			Limiter:  crawl.NewDomainLimiter(1.0),
			Sitemaps: docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), logger),
			Jobs:     jobs,

			CommunityLimiter: crawl.NewDomainLimiter(0.5),
		}
	}

	if cmd == "import" {
		deps.Importer = &fs.Importer{
			Extractor: trafilatura.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Pages:     deps.Pages,
			Indexer:   deps.Indexer,
		}
	}

	return kongCtx.Run(deps)
}

// cancelOnInterrupt requests a graceful crawl stop on the first SIGINT. The
// crawler commits the page in flight and finishes normally.
func cancelOnInterrupt(jobs *crawl.Jobs) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		signal.Stop(ch)
		jobs.Cancel()
	}()
}

func defaultDBPath() string {
	if path := os.Getenv("DOCBASE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docbase.db"
	}
	dir := filepath.Join(home, ".docbase")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docbase.db")
}
