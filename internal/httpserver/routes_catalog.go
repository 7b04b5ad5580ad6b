package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	geojson "github.com/paulmach/go.geojson"
)

// catalogEntry is one autocomplete entry.
type catalogEntry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Bydel string `json:"bydel"`
}

func (s *Server) mountCatalog(r chi.Router) {
	r.Get("/catalog", func(w http.ResponseWriter, r *http.Request) {
		out := make([]catalogEntry, 0, s.cat.Len())
		for _, e := range s.cat.Entities() {
			out = append(out, catalogEntry{Code: e.Code, Name: e.Name, Bydel: e.Bydel})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/catalog.geojson", func(w http.ResponseWriter, r *http.Request) {
		fc := geojson.NewFeatureCollection()
		for _, e := range s.cat.Entities() {
			if !e.Coord().Valid() {
				continue
			}
			f := geojson.NewPointFeature([]float64{e.Longitude, e.Latitude})
			f.ID = e.Code
			f.SetProperty("name", e.Name)
			f.SetProperty("bydel", e.Bydel)
			f.SetProperty("neighbours", e.Neighbours)
			fc.AddFeature(f)
		}
		body, err := fc.MarshalJSON()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "encode_failed")
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}
