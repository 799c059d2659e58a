package mock

import "github.com/mkowalski/docbase"

var _ docbase.DocumentParser = (*DocumentParser)(nil)

// DocumentParser is a mock implementation of docbase.DocumentParser.
type DocumentParser struct {
	ExtractTextFn   func(html string) (string, error)
	ExtractTitleFn  func(html string) string
	ExtractLinksFn  func(html, pageURL string, target docbase.CrawlTarget) ([]string, error)
	ExtractImagesFn func(html string) ([]docbase.ExtractedImage, error)
}

func (p *DocumentParser) ExtractText(html string) (string, error) {
	return p.ExtractTextFn(html)
}

func (p *DocumentParser) ExtractTitle(html string) string {
	if p.ExtractTitleFn == nil {
		return "Untitled"
	}
	return p.ExtractTitleFn(html)
}

func (p *DocumentParser) ExtractLinks(html, pageURL string, target docbase.CrawlTarget) ([]string, error) {
	if p.ExtractLinksFn == nil {
		return nil, nil
	}
	return p.ExtractLinksFn(html, pageURL, target)
}

func (p *DocumentParser) ExtractImages(html string) ([]docbase.ExtractedImage, error) {
	if p.ExtractImagesFn == nil {
		return nil, nil
	}
	return p.ExtractImagesFn(html)
}

var _ docbase.ThreadParser = (*ThreadParser)(nil)

// ThreadParser is a mock implementation of docbase.ThreadParser.
type ThreadParser struct {
	ThreadLinksFn func(html, baseURL string) ([]string, error)
	ParseThreadFn func(html string) (*docbase.ExtractedThread, error)
}

func (p *ThreadParser) ThreadLinks(html, baseURL string) ([]string, error) {
	return p.ThreadLinksFn(html, baseURL)
}

func (p *ThreadParser) ParseThread(html string) (*docbase.ExtractedThread, error) {
	return p.ParseThreadFn(html)
}

var _ docbase.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of docbase.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*docbase.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*docbase.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docbase.Converter = (*Converter)(nil)

// Converter is a mock implementation of docbase.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
