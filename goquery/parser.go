// Package goquery implements docbase's HTML parsing interfaces on top of
// the goquery library.
package goquery

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkowalski/docbase"
	"golang.org/x/net/html"
)

// Elements removed before text extraction. Navigation chrome repeats on
// every page and would dominate the fingerprint and the index.
const strippedElements = "script, style, nav, header, footer, noscript"

// Link targets that are binary or presentational, never documentation.
var skippedExtensions = []string{
	".pdf", ".zip", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".css", ".js",
}

// Image filename fragments that indicate decoration rather than content.
var decorativeImageNames = []string{
	"icon", "logo", "sprite", "nav", "arrow", "bullet",
	"spacer", "banner", "button", "chevron",
}

// minImageDimension filters out tracking pixels and small decorations when
// the markup declares explicit dimensions.
const minImageDimension = 50

// imageContextChars is how much surrounding text is captured on each side
// of an image for embedding context.
const imageContextChars = 200

// DocumentParser parses documentation pages with goquery.
type DocumentParser struct{}

var _ docbase.DocumentParser = (*DocumentParser)(nil)

// NewDocumentParser returns a ready-to-use parser.
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

// ExtractText returns the page's clean text with chrome elements removed
// and whitespace runs collapsed to single spaces.
func (p *DocumentParser) ExtractText(htmlStr string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "", docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(strippedElements).Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return collapseWhitespace(body.Text()), nil
}

// ExtractTitle returns the document title, falling back to the first h1 and
// then to "Untitled".
func (p *DocumentParser) ExtractTitle(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return "Untitled"
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return collapseWhitespace(title)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return collapseWhitespace(h1)
	}
	return "Untitled"
}

// ExtractLinks returns same-category links: anchors resolved against
// pageURL, restricted to the target's root URL prefix, fragments stripped,
// binary and asset targets excluded. Document order is preserved and
// duplicates are dropped.
func (p *DocumentParser) ExtractLinks(htmlStr, pageURL string, target docbase.CrawlTarget) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "invalid page URL: %v", err)
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

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if !strings.HasPrefix(resolved, target.RootURL) {
			return
		}
		if hasSkippedExtension(resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// ExtractImages returns the content images on the page together with their
// captions and surrounding text. It runs on the original HTML so that
// context text removed by ExtractText's cleanup is still available.
func (p *DocumentParser) ExtractImages(htmlStr string) ([]docbase.ExtractedImage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	var images []docbase.ExtractedImage
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		alt := strings.TrimSpace(sel.AttrOr("alt", ""))
		title := strings.TrimSpace(sel.AttrOr("title", ""))
		if isTooSmall(sel) || isDecorative(src, alt, title) {
			return
		}

		img := docbase.ExtractedImage{
			URL:     src,
			Alt:     alt,
			Title:   title,
			Caption: figureCaption(sel),
		}
		if len(sel.Nodes) > 0 {
			img.ContextBefore = textBefore(sel.Nodes[0], imageContextChars)
			img.ContextAfter = textAfter(sel.Nodes[0], imageContextChars)
		}
		images = append(images, img)
	})

	return images, nil
}

// figureCaption returns the figcaption text when the image sits inside a
// figure element.
func figureCaption(sel *goquery.Selection) string {
	figure := sel.Closest("figure")
	if figure.Length() == 0 {
		return ""
	}
	return collapseWhitespace(figure.Find("figcaption").First().Text())
}

// isTooSmall reports whether declared width or height attributes mark the
// image as decoration. Images without declared dimensions pass.
func isTooSmall(sel *goquery.Selection) bool {
	for _, attr := range []string{"width", "height"} {
		if v, ok := sel.Attr(attr); ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil && n < minImageDimension {
				return true
			}
		}
	}
	return false
}

// isDecorative reports whether the image filename, alt text or title
// suggests UI chrome.
func isDecorative(src, alt, title string) bool {
	for _, text := range []string{path.Base(src), alt, title} {
		text = strings.ToLower(text)
		for _, frag := range decorativeImageNames {
			if strings.Contains(text, frag) {
				return true
			}
		}
	}
	return false
}

func hasSkippedExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	lower := strings.ToLower(u.Path)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base and strips the fragment. Returns ""
// for unparseable or self-referential links.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// collapseWhitespace replaces every run of whitespace with a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textBefore walks backwards in document order from n, collecting text
// until limit characters are gathered.
func textBefore(n *html.Node, limit int) string {
	var parts []string
	total := 0
	for cur := prevInDocOrder(n); cur != nil && total < limit; cur = prevInDocOrder(cur) {
		if t := nodeText(cur); t != "" {
			parts = append(parts, t)
			total += len(t) + 1
		}
	}
	// Collected nearest-first; restore document order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return trailingChars(strings.Join(parts, " "), limit)
}

// textAfter walks forwards in document order from n, collecting text until
// limit characters are gathered.
func textAfter(n *html.Node, limit int) string {
	var parts []string
	total := 0
	for cur := nextInDocOrder(n, true); cur != nil && total < limit; cur = nextInDocOrder(cur, false) {
		if t := nodeText(cur); t != "" {
			parts = append(parts, t)
			total += len(t) + 1
		}
	}
	return leadingChars(strings.Join(parts, " "), limit)
}

// nodeText returns the collapsed text of a text node, or "" for other
// nodes and for text inside script/style.
func nodeText(n *html.Node) string {
	if n.Type != html.TextNode {
		return ""
	}
	if p := n.Parent; p != nil && p.Type == html.ElementNode {
		if p.Data == "script" || p.Data == "style" {
			return ""
		}
	}
	return collapseWhitespace(n.Data)
}

// prevInDocOrder returns the node immediately preceding n in document
// order: the deepest last descendant of the previous sibling, else the
// parent.
func prevInDocOrder(n *html.Node) *html.Node {
	if n.PrevSibling != nil {
		cur := n.PrevSibling
		for cur.LastChild != nil {
			cur = cur.LastChild
		}
		return cur
	}
	return n.Parent
}

// nextInDocOrder returns the node following n in document order. When
// skipChildren is true the subtree rooted at n is skipped, which keeps an
// image's own alt text out of its trailing context.
func nextInDocOrder(n *html.Node, skipChildren bool) *html.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.NextSibling != nil {
			return cur.NextSibling
		}
	}
	return nil
}

func trailingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func leadingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
