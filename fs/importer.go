// Package fs imports local documentation exports into the knowledge base.
// Offline help bundles and exported HTML trees go through the same change
// detection and indexing pipeline as crawled pages.
package fs

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mkowalski/docbase"
)

// importable file extensions. HTML files pass through content extraction
// and Markdown conversion; text formats are taken verbatim.
var (
	htmlExtensions = map[string]bool{".html": true, ".htm": true}
	textExtensions = map[string]bool{".md": true, ".markdown": true, ".txt": true}
)

// Importer walks a local directory tree and imports its documents as pages
// of one category.
type Importer struct {
	Extractor docbase.ContentExtractor
	Converter docbase.Converter
	Pages     docbase.PageService
	Indexer   docbase.IndexService
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	FilesScanned  int
	Created       int
	Updated       int
	Unchanged     int
	ChunksIndexed int
	Failed        []string
}

// Import walks dir and imports every supported file into the category.
// Files are keyed by file:// URLs, so re-importing an unchanged tree is a
// no-op. File-level failures are collected, not fatal.
func (im *Importer) Import(ctx context.Context, dir, category string) (*ImportResult, error) {
	if category == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "category required")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, docbase.Errorf(docbase.ENOTFOUND, "directory %q not found", dir)
	}

	result := &ImportResult{}
	walkErr := filepath.WalkDir(dir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(filePath))
		if !htmlExtensions[ext] && !textExtensions[ext] {
			return nil
		}

		result.FilesScanned++
		if err := im.importFile(ctx, dir, filePath, category, result); err != nil {
			result.Failed = append(result.Failed, filePath+": "+docbase.ErrorMessage(err))
		}
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}
	return result, nil
}

func (im *Importer) importFile(ctx context.Context, root, filePath, category string, result *ImportResult) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return docbase.Errorf(docbase.EUNAVAILABLE, "reading %s: %v", filePath, err)
	}

	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		rel = filepath.Base(filePath)
	}

	title, content, err := im.convert(filePath, string(raw))
	if err != nil {
		return err
	}
	if title == "" {
		title = titleFromPath(rel)
	}
	if strings.TrimSpace(content) == "" {
		return docbase.Errorf(docbase.EINVALID, "no content extracted from %s", filePath)
	}

	section, topic := sectionTopicFromPath(rel)
	page := &docbase.Page{
		URL:         fileURL(filePath),
		Title:       title,
		Content:     content,
		Section:     section,
		Topic:       topic,
		Category:    category,
		ContentHash: docbase.Fingerprint(content),
	}

	existing, err := im.Pages.FindPageByURL(ctx, page.URL)
	switch {
	case err != nil && docbase.ErrorCode(err) == docbase.ENOTFOUND:
		if err := im.Pages.CreatePage(ctx, page); err != nil {
			return err
		}
		result.Created++
	case err != nil:
		return err
	case existing.ContentHash == page.ContentHash:
		result.Unchanged++
		return nil
	default:
		page.ID = existing.ID
		if err := im.Pages.UpdatePage(ctx, page); err != nil {
			return err
		}
		result.Updated++
	}

	n, err := im.Indexer.IndexPage(ctx, page, nil)
	result.ChunksIndexed += n
	return err
}

// convert turns a file's raw bytes into (title, plain content). HTML goes
// through boilerplate extraction and Markdown conversion; text formats are
// returned as-is.
func (im *Importer) convert(filePath, raw string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if !htmlExtensions[ext] {
		return "", raw, nil
	}

	extracted, err := im.Extractor.Extract(raw)
	if err != nil {
		return "", "", docbase.Errorf(docbase.EINVALID, "extracting %s: %v", filePath, err)
	}
	if extracted.ContentHTML == "" {
		return extracted.Title, "", nil
	}

	markdown, err := im.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", "", docbase.Errorf(docbase.EINVALID, "converting %s: %v", filePath, err)
	}
	return extracted.Title, markdown, nil
}

// fileURL builds the stable file:// identity of an imported file.
func fileURL(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// sectionTopicFromPath derives section and topic from the file's relative
// path, the same way crawled pages derive them from URL segments.
func sectionTopicFromPath(rel string) (section, topic string) {
	section, topic = "General", "Documentation"

	segments := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
	var clean []string
	for _, seg := range segments {
		if seg != "" && seg != "." {
			clean = append(clean, cleanSegment(seg))
		}
	}

	switch len(clean) {
	case 0:
	case 1:
		section = clean[0]
	default:
		section = clean[0]
		topic = clean[1]
	}
	return section, topic
}

func titleFromPath(rel string) string {
	base := filepath.Base(rel)
	return cleanSegment(strings.TrimSuffix(base, path.Ext(base)))
}

func cleanSegment(seg string) string {
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	return strings.ReplaceAll(seg, "_", " ")
}
