package docbase

// ExtractedImage is an image surviving the parser's relevance filters,
// together with the text captured around it.
type ExtractedImage struct {
	URL           string
	Alt           string
	Title         string
	Caption       string
	ContextBefore string
	ContextAfter  string
}

// ExtractedThread is a parsed forum thread: the question and its replies
// synthesized into a single transcript.
type ExtractedThread struct {
	Title       string
	Transcript  string
	HasSolution bool
	AnswerCount int
}

// DocumentParser parses documentation HTML. The interface is deliberately
// narrow so the concrete parser library is swappable without touching crawl
// logic.
type DocumentParser interface {
	// ExtractText returns the page's clean text: script, style, nav,
	// header and footer elements removed, whitespace runs collapsed.
	ExtractText(html string) (string, error)

	// ExtractTitle returns the page title, falling back to the first h1
	// and then to "Untitled".
	ExtractTitle(html string) string

	// ExtractLinks returns the same-category links discovered on the
	// page, resolved against pageURL, fragments stripped, binary and
	// image targets excluded.
	ExtractLinks(html, pageURL string, target CrawlTarget) ([]string, error)

	// ExtractImages runs on the original HTML, before any destructive
	// cleanup, and returns the images worth indexing.
	ExtractImages(html string) ([]ExtractedImage, error)
}

// ThreadParser parses discussion-forum HTML.
type ThreadParser interface {
	// ThreadLinks harvests thread URLs from a board listing page.
	ThreadLinks(html, baseURL string) ([]string, error)

	// ParseThread parses a thread page into a transcript.
	ParseThread(html string) (*ExtractedThread, error)
}

// ExtractResult holds the main content extracted from an HTML document.
type ExtractResult struct {
	Title       string
	ContentHTML string
}

// ContentExtractor extracts main content from HTML, removing boilerplate.
// Used by the local-document importer.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
