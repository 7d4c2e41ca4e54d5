package game

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultLocale is the catalog locale used for effect parsing and fallbacks.
const DefaultLocale = "en"

// LocalizedText maps a BCP 47 locale ("en", "fr") to text.
type LocalizedText map[string]string

// English returns the canonical text.
func (t LocalizedText) English() string {
	if s, ok := t[DefaultLocale]; ok {
		return s
	}
	for _, k := range t.locales() {
		return t[k]
	}
	return ""
}

// Get returns the text for the closest available locale, falling back to English.
func (t LocalizedText) Get(locale string) string {
	if len(t) == 0 {
		return ""
	}
	if s, ok := t[locale]; ok {
		return s
	}
	keys := t.locales()
	tags := make([]language.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, language.Make(k))
	}
	want, err := language.Parse(locale)
	if err != nil {
		return t.English()
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return t.English()
	}
	return t[keys[idx]]
}

// Clone returns an independent copy.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// locales returns the keys with English first, then sorted, so matching is deterministic.
func (t LocalizedText) locales() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		if k != DefaultLocale {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := t[DefaultLocale]; ok {
		keys = append([]string{DefaultLocale}, keys...)
	}
	return keys
}

// BaseName strips the subtitle from a card name: "Naruto Uzumaki - Genin" → "Naruto Uzumaki".
func BaseName(name string) string {
	for _, sep := range []string{" - ", " — ", " – ", ":", ","} {
		if i := strings.Index(name, sep); i > 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

// foldName normalizes a name for comparison: case-folded, accents removed, spaces collapsed.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// SameName reports whether two cards share a base name, ignoring case and accents.
func SameName(a, b *Card) bool {
	if a == nil || b == nil {
		return false
	}
	return foldName(BaseName(a.Names.English())) == foldName(BaseName(b.Names.English()))
}
