package docbase_test

import (
	"testing"

	"github.com/mkowalski/docbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRegistry_seeds_builtin_targets(t *testing.T) {
	t.Parallel()

	r := docbase.NewTargetRegistry()

	target, err := r.Get("windchill")
	require.NoError(t, err)
	assert.Equal(t, docbase.TargetDocs, target.Kind)

	target, err = r.Get("community-windchill")
	require.NoError(t, err)
	assert.Equal(t, docbase.TargetCommunity, target.Kind)

	assert.Len(t, r.List(), 4)
}

func TestTargetRegistry_Get_returns_not_found_for_unknown_key(t *testing.T) {
	t.Parallel()

	r := docbase.NewTargetRegistry()

	_, err := r.Get("nope")
	assert.Equal(t, docbase.ENOTFOUND, docbase.ErrorCode(err))
}

func TestTargetRegistry_Register_custom_target(t *testing.T) {
	t.Parallel()

	r := docbase.NewTargetRegistry()

	custom := docbase.CrawlTarget{
		Key:      "internal-docs",
		Name:     "Internal Docs",
		RootURL:  "https://internal.example.com/docs/en/",
		Kind:     docbase.TargetDocs,
		AuthMode: docbase.AuthKerberos,
	}
	require.NoError(t, r.Register(custom))

	got, err := r.Get("internal-docs")
	require.NoError(t, err)
	assert.Equal(t, docbase.AuthKerberos, got.AuthMode)

	// Registering the same key again conflicts.
	err = r.Register(custom)
	assert.Equal(t, docbase.ECONFLICT, docbase.ErrorCode(err))
}

func TestTargetRegistry_Register_rejects_invalid_target(t *testing.T) {
	t.Parallel()

	r := docbase.NewTargetRegistry()

	err := r.Register(docbase.CrawlTarget{Key: "x", RootURL: "https://x/", Kind: "weird", AuthMode: docbase.AuthNone})
	assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))

	err = r.Register(docbase.CrawlTarget{RootURL: "https://x/", Kind: docbase.TargetDocs, AuthMode: docbase.AuthNone})
	assert.Equal(t, docbase.EINVALID, docbase.ErrorCode(err))
}

func TestSectionTopic_derives_from_path_after_root(t *testing.T) {
	t.Parallel()

	target := docbase.CrawlTarget{
		Key:     "windchill",
		RootURL: "https://x/docs/en/",
		Kind:    docbase.TargetDocs,
	}

	section, topic := docbase.SectionTopic("https://x/docs/en/bom/create.html", target)
	assert.Equal(t, "bom", section)
	assert.Equal(t, "create", topic)
}

func TestSectionTopic_strips_extensions_and_underscores(t *testing.T) {
	t.Parallel()

	target := docbase.CrawlTarget{Key: "creo", RootURL: "https://x/help/", Kind: docbase.TargetDocs}

	section, topic := docbase.SectionTopic("https://x/help/part_modeling/sketch_tools.html", target)
	assert.Equal(t, "part modeling", section)
	assert.Equal(t, "sketch tools", topic)
}

func TestSectionTopic_falls_back_to_last_segments(t *testing.T) {
	t.Parallel()

	target := docbase.CrawlTarget{Key: "windchill", RootURL: "https://x/docs/en/", Kind: docbase.TargetDocs}

	section, topic := docbase.SectionTopic("https://other/site/guides/workflows/approval.html", target)
	assert.Equal(t, "workflows", section)
	assert.Equal(t, "approval", topic)
}

func TestSectionTopic_defaults_for_root_page(t *testing.T) {
	t.Parallel()

	target := docbase.CrawlTarget{Key: "windchill", RootURL: "https://x/docs/en/", Kind: docbase.TargetDocs}

	section, topic := docbase.SectionTopic("https://x/docs/en/", target)
	assert.Equal(t, "General", section)
	assert.Equal(t, "Documentation", topic)
}

func TestKeyword_strips_community_prefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "windchill", docbase.Keyword("community-windchill"))
	assert.Equal(t, "creo", docbase.Keyword("creo"))
}
