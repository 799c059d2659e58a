package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkowalski/docbase"
	main "github.com/mkowalski/docbase/cmd/docbase"
	"github.com/mkowalski/docbase/fs"
	"github.com/mkowalski/docbase/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints import summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("# Guide\n\nBody."), 0o644))

		importer := &fs.Importer{
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) { return html, nil },
			},
			Pages: &mock.PageService{
				FindPageByURLFn: func(_ context.Context, _ string) (*docbase.Page, error) {
					return nil, docbase.Errorf(docbase.ENOTFOUND, "page not found")
				},
				CreatePageFn: func(_ context.Context, page *docbase.Page) error {
					page.ID = "page-1"
					return nil
				},
			},
			Indexer: &mock.IndexService{
				IndexPageFn: func(_ context.Context, _ *docbase.Page, _ []*docbase.Image) (int, error) {
					return 3, nil
				},
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Importer: importer,
		}

		cmd := &main.ImportCmd{Dir: dir, Category: "manuals"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Scanned 1 files")
		assert.Contains(t, output, "1 new")
		assert.Contains(t, output, "Indexed 3 chunks")
		assert.Empty(t, stderr.String())
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		t.Parallel()

		importer := &fs.Importer{}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Importer: importer,
		}

		cmd := &main.ImportCmd{Dir: filepath.Join(t.TempDir(), "missing"), Category: "manuals"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
