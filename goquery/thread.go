package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkowalski/docbase"
)

// threadURLPattern matches Khoros-style forum thread paths: /td-p/<id> for
// topics and /m-p/<id> for message permalinks.
var threadURLPattern = regexp.MustCompile(`/(?:td-p|m-p)/\d+`)

// maxTranscriptAnswers bounds how many non-solution replies appear in a
// thread transcript.
const maxTranscriptAnswers = 3

// maxReplyChars truncates each reply in a transcript.
const maxReplyChars = 1000

// ThreadParser parses Khoros-style community forum HTML.
type ThreadParser struct{}

var _ docbase.ThreadParser = (*ThreadParser)(nil)

// NewThreadParser returns a ready-to-use forum parser.
func NewThreadParser() *ThreadParser {
	return &ThreadParser{}
}

// ThreadLinks harvests thread URLs from a board listing page. Anchors are
// resolved against baseURL, filtered to the thread URL pattern and
// deduplicated in document order.
func (p *ThreadParser) ThreadLinks(htmlStr, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		if !threadURLPattern.MatchString(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		if u, err := url.Parse(resolved); err != nil || u.Host != base.Host {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// ParseThread parses a thread page into a transcript. The first message
// body is the question, a reply inside an accepted-solution container
// becomes the Accepted Solution segment, and up to three further replies
// are appended as numbered answers.
func (p *ThreadParser) ParseThread(htmlStr string) (*docbase.ExtractedThread, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	bodies := doc.Find(".lia-message-body-content")
	if bodies.Length() == 0 {
		return nil, docbase.Errorf(docbase.EINVALID, "no message bodies found")
	}

	var question, solution string
	var answers []string
	answerCount := 0

	bodies.Each(func(i int, sel *goquery.Selection) {
		text := collapseWhitespace(sel.Text())
		if text == "" {
			return
		}
		if i == 0 {
			question = text
			return
		}
		answerCount++
		if solution == "" && isAcceptedSolution(sel) {
			solution = text
			return
		}
		answers = append(answers, text)
	})

	if question == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "thread has no question body")
	}

	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(question)
	if solution != "" {
		b.WriteString("\n\nAccepted Solution:\n")
		b.WriteString(truncateReply(solution))
	}
	for i, answer := range answers {
		if i >= maxTranscriptAnswers {
			break
		}
		fmt.Fprintf(&b, "\n\nAnswer %d:\n", i+1)
		b.WriteString(truncateReply(answer))
	}

	return &docbase.ExtractedThread{
		Title:       threadTitle(doc),
		Transcript:  b.String(),
		HasSolution: solution != "",
		AnswerCount: answerCount,
	}, nil
}

// isAcceptedSolution reports whether a message body sits inside a container
// marked as the accepted solution.
func isAcceptedSolution(sel *goquery.Selection) bool {
	return sel.Closest("[class*='lia-accepted-solution'], [class*='AcceptedSolution']").Length() > 0
}

func threadTitle(doc *goquery.Document) string {
	if subject := collapseWhitespace(doc.Find(".lia-message-subject").First().Text()); subject != "" {
		return subject
	}
	if title := collapseWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return "Untitled"
}

func truncateReply(s string) string {
	if len(s) <= maxReplyChars {
		return s
	}
	return s[:maxReplyChars]
}
