package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fulmenhq/contentpacks/pkg/logger"
)

// Slugify turns a name into a lowercase ASCII token joined by hyphens.
// Accented letters are folded to their base letter; anything that is not
// an ASCII letter or digit becomes a separator.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r = unicode.ToLower(r)
		case r == '\'':
			// apostrophes join words instead of splitting them
			continue
		default:
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// stem drops the last extension component. Names without a dot have no stem.
func stem(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[:i]
}

// SlugRegistry is the set of slugs handed out during one import run.
type SlugRegistry struct {
	used map[string]struct{}
}

// NewSlugRegistry returns an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{used: make(map[string]struct{})}
}

// Allocate derives a slug for name and registers it. The extension-less
// name is tried first; if that is empty or taken, the full name including
// its extension is used. A collision on the second form is accepted as a
// duplicate and logged.
func (r *SlugRegistry) Allocate(name string) string {
	slug := Slugify(stem(name))
	if slug == "" || r.Has(slug) {
		slug = Slugify(name)
		if r.Has(slug) {
			logger.Warn("Slug collision not resolvable, keeping duplicate",
				logger.String("name", name), logger.String("slug", slug))
		}
	}
	r.used[slug] = struct{}{}
	return slug
}

// Has reports whether slug is already registered.
func (r *SlugRegistry) Has(slug string) bool {
	_, ok := r.used[slug]
	return ok
}

// Len returns the number of distinct slugs registered.
func (r *SlugRegistry) Len() int { return len(r.used) }
