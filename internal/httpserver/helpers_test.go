package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/maxbax0808/Bergle/assets"
	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/config"
	"github.com/maxbax0808/Bergle/internal/store"
)

var testDay = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv *Server
	cat *catalog.Catalog
	cfg config.Config
	db  *sql.DB
	reg *prometheus.Registry
	day time.Time // server clock; tests may move it
}

func newTestEnv(t *testing.T, withDB bool) *testEnv {
	t.Helper()
	cat, err := catalog.Parse(assets.DefaultCatalog(), "json")
	require.NoError(t, err)

	cfg := config.FromEnv(func(string) string { return "" })
	cfg.RevealUnit = time.Millisecond

	var db *sql.DB
	if withDB {
		db = openTestDB(t)
	}
	env := &testEnv{cat: cat, cfg: cfg, db: db, reg: prometheus.NewRegistry(), day: testDay}
	env.srv = New(cfg, cat, store.NewMemoryStore(), db,
		WithRegistry(env.reg),
		WithClock(func() time.Time { return env.day }),
	)
	return env
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	migs := assets.Migrations()
	names, err := fs.Glob(migs, "*.sql")
	require.NoError(t, err)
	sort.Strings(names)
	for _, n := range names {
		b, err := fs.ReadFile(migs, n)
		require.NoError(t, err)
		_, err = db.Exec(string(b))
		require.NoError(t, err, n)
	}
	return db
}

// client replays the cookies it receives, like a browser.
type client struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client() *client {
	return &client{env: e, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.env.srv.Router().ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
