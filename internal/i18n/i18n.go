// Package i18n resolves translation keys against the bundled gettext catalogs.
package i18n

import (
	"github.com/leonelquinteros/gotext"

	"github.com/maxbax0808/Bergle/assets"
)

// DefaultLang is used when the requested language has no bundled catalog.
const DefaultLang = "nb"

// Translator maps a key to its localized string. Unknown keys come back unchanged.
type Translator func(key string) string

// New returns a Translator for lang, falling back to DefaultLang.
func New(lang string) Translator {
	data := assets.Locale(lang)
	if data == nil {
		data = assets.Locale(DefaultLang)
	}
	if data == nil {
		return Identity
	}
	po := gotext.NewPo()
	po.Parse(data)
	return func(key string) string { return po.Get(key) }
}

// Identity is the Translator that returns keys as-is.
func Identity(key string) string { return key }
