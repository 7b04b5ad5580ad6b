package assets

import (
	"embed"
	"io/fs"
)

//go:embed catalog/oslo.json
var defaultCatalog []byte

//go:embed sql/*.sql
var migrations embed.FS

//go:embed locales/*.po
var locales embed.FS

// DefaultCatalog returns the bundled Oslo place catalog (JSON).
func DefaultCatalog() []byte {
	return defaultCatalog
}

// Migrations exposes the SQL migration files rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return sub
}

// Locale returns the raw .po file for lang, or nil if none is bundled.
func Locale(lang string) []byte {
	b, err := locales.ReadFile("locales/" + lang + ".po")
	if err != nil {
		return nil
	}
	return b
}
