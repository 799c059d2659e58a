package docbase

import (
	"path"
	"sort"
	"strings"
	"sync"
)

// TargetKind distinguishes hierarchical documentation sites from
// discussion-forum boards, which use different crawl strategies.
type TargetKind string

// Supported target kinds.
const (
	TargetDocs      TargetKind = "docs"
	TargetCommunity TargetKind = "community"
)

// AuthMode selects how credentials are attached to fetches for a target.
// The actual credential material comes from a CredentialProvider.
type AuthMode string

// Supported authentication modes.
const (
	AuthNone     AuthMode = "none"
	AuthKerberos AuthMode = "kerberos"
	AuthNTLM     AuthMode = "ntlm"
	AuthForm     AuthMode = "form"
)

// CrawlTarget identifies one documentation or forum category.
// Targets are immutable once a crawl starts.
type CrawlTarget struct {
	Key      string     `json:"key"`
	Name     string     `json:"name"`
	RootURL  string     `json:"rootUrl"`
	Kind     TargetKind `json:"kind"`
	AuthMode AuthMode   `json:"authMode"`
}

// Validate returns an error if the target contains invalid fields.
func (t *CrawlTarget) Validate() error {
	if t.Key == "" {
		return Errorf(EINVALID, "target key required")
	}
	if t.RootURL == "" {
		return Errorf(EINVALID, "target root URL required")
	}
	switch t.Kind {
	case TargetDocs, TargetCommunity:
	default:
		return Errorf(EINVALID, "unknown target kind %q", t.Kind)
	}
	switch t.AuthMode {
	case AuthNone, AuthKerberos, AuthNTLM, AuthForm:
	default:
		return Errorf(EINVALID, "unknown auth mode %q", t.AuthMode)
	}
	return nil
}

// BuiltinTargets returns the compiled-in crawl targets.
func BuiltinTargets() []CrawlTarget {
	return []CrawlTarget{
		{
			Key:      "windchill",
			Name:     "Windchill",
			RootURL:  "https://support.ptc.com/help/windchill/r13.1.2.0/en/",
			Kind:     TargetDocs,
			AuthMode: AuthNone,
		},
		{
			Key:      "creo",
			Name:     "Creo",
			RootURL:  "https://support.ptc.com/help/creo/creo_pma/r12/usascii/",
			Kind:     TargetDocs,
			AuthMode: AuthNone,
		},
		{
			Key:      "community-windchill",
			Name:     "Windchill Community",
			RootURL:  "https://community.ptc.com/t5/Windchill/bd-p/Windchill",
			Kind:     TargetCommunity,
			AuthMode: AuthNone,
		},
		{
			Key:      "community-creo",
			Name:     "Creo Community",
			RootURL:  "https://community.ptc.com/t5/Creo-Parametric/bd-p/crlounge",
			Kind:     TargetCommunity,
			AuthMode: AuthNone,
		},
	}
}

// TargetRegistry holds the set of known crawl targets: the compiled-in ones
// plus any registered at runtime. It is safe for concurrent use.
type TargetRegistry struct {
	mu      sync.RWMutex
	targets map[string]CrawlTarget
}

// NewTargetRegistry creates a registry seeded with the builtin targets.
func NewTargetRegistry() *TargetRegistry {
	r := &TargetRegistry{targets: make(map[string]CrawlTarget)}
	for _, t := range BuiltinTargets() {
		r.targets[t.Key] = t
	}
	return r
}

// Register adds a custom target. Returns ECONFLICT if the key is taken.
func (r *TargetRegistry) Register(t CrawlTarget) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.targets[t.Key]; ok {
		return Errorf(ECONFLICT, "target %q already registered", t.Key)
	}
	r.targets[t.Key] = t
	return nil
}

// Get returns the target for a key. Returns ENOTFOUND for unknown keys.
func (r *TargetRegistry) Get(key string) (CrawlTarget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[key]
	if !ok {
		return CrawlTarget{}, Errorf(ENOTFOUND, "unknown target %q", key)
	}
	return t, nil
}

// List returns all registered targets sorted by key.
func (r *TargetRegistry) List() []CrawlTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CrawlTarget, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keyword returns the short identifying word for a target key, used by the
// retriever's URL guard. Community boards share the keyword of the product
// they discuss ("community-windchill" -> "windchill").
func Keyword(targetKey string) string {
	return strings.TrimPrefix(targetKey, "community-")
}

// SectionTopic derives section and topic labels from a page URL. For URLs
// under the target's root the first path segment after the root is the
// section and the second the topic. Other URL shapes fall back to the last
// two path segments. File extensions are stripped and underscores become
// spaces.
func SectionTopic(pageURL string, target CrawlTarget) (section, topic string) {
	section, topic = "General", "Documentation"

	var segs []string
	if rest, ok := strings.CutPrefix(pageURL, target.RootURL); ok {
		segs = splitPathSegments(rest)
	} else {
		all := splitPathSegments(pageURL)
		if len(all) > 2 {
			all = all[len(all)-2:]
		}
		segs = all
	}

	if len(segs) > 0 && segs[0] != "" {
		section = cleanSegment(segs[0])
	}
	if len(segs) > 1 && segs[1] != "" {
		topic = cleanSegment(segs[1])
	}
	return section, topic
}

func splitPathSegments(s string) []string {
	if i := strings.IndexAny(s, "?#"); i != -1 {
		s = s[:i]
	}
	var segs []string
	for _, p := range strings.Split(s, "/") {
		if p != "" && !strings.Contains(p, ":") {
			segs = append(segs, p)
		}
	}
	return segs
}

func cleanSegment(s string) string {
	s = strings.TrimSuffix(s, path.Ext(s))
	return strings.ReplaceAll(s, "_", " ")
}
