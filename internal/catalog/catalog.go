// internal/catalog/catalog.go
//
// Provides the place catalog used by the game engine and the map.
//
// Responsibilities:
//   - Load places from an environment-provided file or fall back to the
//     embedded Oslo catalog.
//   - Maintain a case-insensitive name index for guess lookup.
//   - Supply RandomTarget, ByName, ByCode and Stats helpers.
//
// Catalog file (CATALOG_FILE):
//   - *.json → JSON array of places.
//   - *.yaml / *.yml → YAML sequence of places with the same keys.
//
// Constraints:
//   • Codes must be unique and non-empty; names must be non-empty.
//   • Neighbour codes are NOT validated here: the map tolerates dangling ones.
//   • Missing coordinates load as NaN (see geo.Coord.Valid).

package catalog

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v3"

	"github.com/maxbax0808/Bergle/assets"
	"github.com/maxbax0808/Bergle/internal/geo"
)

// ErrEmpty is returned when a catalog has no places.
var ErrEmpty = errors.New("catalog: no places")

// Entity is one guessable place.
type Entity struct {
	Code       string   `json:"code" yaml:"code"`
	Name       string   `json:"name" yaml:"name"`
	Bydel      string   `json:"bydel" yaml:"bydel"` // sub-region (city district)
	Latitude   float64  `json:"latitude" yaml:"latitude"`
	Longitude  float64  `json:"longitude" yaml:"longitude"`
	Neighbours []string `json:"neighbours" yaml:"neighbours"`
}

// Coord returns the entity position; invalid when coordinates were missing.
func (e Entity) Coord() geo.Coord {
	return geo.Coord{Lat: e.Latitude, Lon: e.Longitude}
}

// rawEntity mirrors Entity with optional coordinates so "missing" can be told
// apart from 0.
type rawEntity struct {
	Code       string   `json:"code" yaml:"code"`
	Name       string   `json:"name" yaml:"name"`
	Bydel      string   `json:"bydel" yaml:"bydel"`
	Latitude   *float64 `json:"latitude" yaml:"latitude"`
	Longitude  *float64 `json:"longitude" yaml:"longitude"`
	Neighbours []string `json:"neighbours" yaml:"neighbours"`
}

func (r rawEntity) entity() Entity {
	e := Entity{
		Code:       strings.TrimSpace(r.Code),
		Name:       strings.TrimSpace(r.Name),
		Bydel:      strings.TrimSpace(r.Bydel),
		Latitude:   math.NaN(),
		Longitude:  math.NaN(),
		Neighbours: append([]string(nil), r.Neighbours...),
	}
	if r.Latitude != nil {
		e.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		e.Longitude = *r.Longitude
	}
	return e
}

// Catalog is an immutable, indexed list of places in file order.
type Catalog struct {
	entities []Entity
	byName   map[string]int // normalized name → index
	byCode   map[string]int
}

// New validates and indexes entities.
func New(entities []Entity) (*Catalog, error) {
	if len(entities) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		entities: make([]Entity, len(entities)),
		byName:   make(map[string]int, len(entities)),
		byCode:   make(map[string]int, len(entities)),
	}
	copy(c.entities, entities)
	for i, e := range c.entities {
		if e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog: entry %d: code and name are required", i)
		}
		if _, dup := c.byCode[e.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate code %q", e.Code)
		}
		c.byCode[e.Code] = i
		key := Normalize(e.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate name %q", e.Name)
		}
		c.byName[key] = i
	}
	return c, nil
}

// Parse decodes a catalog document. format is "json" or "yaml".
func Parse(data []byte, format string) (*Catalog, error) {
	var raw []rawEntity
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("catalog: decode json: %w", err)
		}
	}
	entities := make([]Entity, 0, len(raw))
	for _, r := range raw {
		entities = append(entities, r.entity())
	}
	return New(entities)
}

// Load reads a catalog file, picking the decoder from its extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Normalize is the case-insensitive key used for name matching.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Entities returns the places in catalog order. The slice must not be modified.
func (c *Catalog) Entities() []Entity { return c.entities }

// Len reports the number of places.
func (c *Catalog) Len() int { return len(c.entities) }

// At returns the place at index i (daily target selection).
func (c *Catalog) At(i int) Entity { return c.entities[i] }

// ByName looks a place up by display name, ignoring case and surrounding space.
func (c *Catalog) ByName(name string) (Entity, bool) {
	i, ok := c.byName[Normalize(name)]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// ByCode looks a place up by its code.
func (c *Catalog) ByCode(code string) (Entity, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// RandomTarget returns a cryptographically random place.
func (c *Catalog) RandomTarget() Entity {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.entities))))
	if err != nil {
		return c.entities[0]
	}
	return c.entities[n.Int64()]
}

// Stats returns (places, sub-regions).
func (c *Catalog) Stats() (places int, bydeler int) {
	seen := mapset.New[string]()
	for _, e := range c.entities {
		if e.Bydel != "" {
			seen.Put(e.Bydel)
		}
	}
	return len(c.entities), seen.Size()
}

// --- process-wide default, loaded once ---

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the process catalog exactly once: from path when non-empty,
// otherwise from the embedded Oslo catalog.
func Init(path string) error {
	initOnce.Do(func() {
		if path != "" {
			defaultCat, initialErr = Load(path)
			return
		}
		defaultCat, initialErr = Parse(assets.DefaultCatalog(), "json")
	})
	return initialErr
}

// Default returns the catalog loaded by Init (nil before a successful Init).
func Default() *Catalog { return defaultCat }
