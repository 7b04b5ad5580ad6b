// internal/httpserver/routes_game.go
//
// Free-play game routes.
//   - POST /game/new                    → start a session (random or fixed target)
//   - POST /game/guess                  → score a guess, return its settled row
//   - GET  /game/{id}                   → snapshot; target revealed once finished
//   - GET  /game/{id}/rows/{n}/reveal   → event stream of row n's reveal animation
//   - GET  /game/{id}/map.svg           → map of all guesses so far
//
// Row views and the map honour the display settings passed as query
// parameters (unit, theme, bydelHelper, hideNames).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/mapview"
	"github.com/maxbax0808/Bergle/internal/reveal"
	"github.com/maxbax0808/Bergle/internal/settings"
	"github.com/maxbax0808/Bergle/internal/store"
)

// revealGrace is the slack allowed past a row's RUNNING window before a
// stream is abandoned.
const revealGrace = 5 * time.Second

// Default map canvas when the client does not send its viewport.
const (
	defaultMapWidth  = 800
	defaultMapHeight = 600
)

type newGameReq struct {
	Target string `json:"target" validate:"omitempty,max=64"` // fixed target name or code (testing)
}

type newGameRes struct {
	GameID     string `json:"gameId"`
	MaxGuesses int    `json:"maxGuesses"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := s.decodeAndValidate(r, &req); err != nil && !errors.Is(err, errBadJSON) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := "random"
	target := s.cat.RandomTarget()
	if req.Target != "" {
		e, ok := s.resolvePlace(req.Target)
		if !ok {
			writeError(w, http.StatusBadRequest, s.tr("unknownPlace"))
			return
		}
		target, mode = e, "fixed"
	}

	g := game.New(target)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.metrics.gamesStarted.WithLabelValues(mode).Inc()
	s.recordGameStart(w, r, g)

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, MaxGuesses: g.MaxGuesses})
}

func (s *Server) resolvePlace(nameOrCode string) (catalog.Entity, bool) {
	if e, ok := s.cat.ByName(nameOrCode); ok {
		return e, true
	}
	return s.cat.ByCode(nameOrCode)
}

// errDailyGame rejects free-play guesses on a daily game, whose result is
// recorded by /daily/guess.
var errDailyGame = errors.New("daily game: guess via /daily/guess")

type guessReq struct {
	GameID string `json:"gameId" validate:"required,max=64"`
	Guess  string `json:"guess" validate:"required,max=64"`
}

type guessRes struct {
	Guess  game.Guess    `json:"guess"`
	Row    reveal.View   `json:"row"`
	State  game.Status   `json:"state"`
	Target *catalogEntry `json:"target,omitempty"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		guess game.Guess
		snap  game.Game
	)
	err := s.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		if g.Mode == game.ModeDaily {
			return errDailyGame
		}
		var err error
		if guess, err = g.ApplyGuess(s.cat, req.Guess); err != nil {
			return err
		}
		snap = *g
		snap.Guesses = g.History()
		return nil
	})
	if err != nil {
		s.metrics.guesses.WithLabelValues("rejected").Inc()
		s.writeGameError(w, err)
		return
	}
	outcome := "miss"
	if guess.Exact() {
		outcome = "hit"
	}
	s.metrics.guesses.WithLabelValues(outcome).Inc()
	s.recordGuess(w, r, &snap)

	set := settings.FromQuery(r.URL.Query())
	res := guessRes{
		Guess: guess,
		Row:   reveal.Render(reveal.Ended, &guess, s.cfg.RevealUnit, s.prox, set, s.tr),
		State: snap.Status(),
	}
	if snap.Finished {
		res.Target = &catalogEntry{Code: snap.Target.Code, Name: snap.Target.Name, Bydel: snap.Target.Bydel}
	}
	writeJSON(w, http.StatusOK, res)
}

// writeGameError maps engine and store errors to HTTP statuses.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrUnknownPlace):
		writeError(w, http.StatusBadRequest, s.tr("unknownPlace"))
	case errors.Is(err, errDailyGame):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrDuplicateGuess), errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrEmptyGuess):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("apply guess")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

type gameRes struct {
	GameID      string        `json:"gameId"`
	State       game.Status   `json:"state"`
	MaxGuesses  int           `json:"maxGuesses"`
	Guesses     []game.Guess  `json:"guesses"`
	Rows        []reveal.View `json:"rows"`
	BestPercent int           `json:"bestPercent"`
	Target      *catalogEntry `json:"target,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	set := settings.FromQuery(r.URL.Query())
	res := gameRes{
		GameID:      snap.ID,
		State:       snap.Status(),
		MaxGuesses:  snap.MaxGuesses,
		Guesses:     snap.Guesses,
		Rows:        make([]reveal.View, 0, len(snap.Guesses)),
		BestPercent: snap.BestPercent(s.prox),
	}
	for i := range snap.Guesses {
		res.Rows = append(res.Rows, reveal.Render(reveal.Ended, &snap.Guesses[i], s.cfg.RevealUnit, s.prox, set, s.tr))
	}
	if snap.Finished {
		res.Target = &catalogEntry{Code: snap.Target.Code, Name: snap.Target.Name, Bydel: snap.Target.Bydel}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleReveal streams one row's reveal as server-sent events: one "state"
// event per transition (RUNNING, then ENDED), then the stream closes. A client
// that disconnects cancels the pending timer.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > len(snap.Guesses) {
		writeError(w, http.StatusNotFound, "row_not_found")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}

	set := settings.FromQuery(r.URL.Query())
	views := make(chan reveal.View, 4)
	row := reveal.NewRow(s.sched,
		reveal.WithUnit(s.cfg.RevealUnit),
		reveal.WithProximity(s.prox),
		reveal.WithOnChange(func(st reveal.State, g *game.Guess) {
			// runs under the row lock: render from the arguments, never block
			select {
			case views <- reveal.Render(st, g, s.cfg.RevealUnit, s.prox, set, s.tr):
			default:
			}
		}),
	)
	defer row.Close()

	s.metrics.revealStreams.Inc()
	defer s.metrics.revealStreams.Dec()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	guess := snap.Guesses[n-1]
	row.Bind(&guess)

	if err := streamViews(r.Context(), w, flusher, views, reveal.RunningFor(s.cfg.RevealUnit)+revealGrace); err != nil {
		log.Debug().Err(err).Str("gameId", snap.ID).Int("row", n).Msg("reveal stream closed")
	}
}

// streamViews writes views as SSE until an ENDED view, ctx cancellation, or
// the idle limit passes without an event.
func streamViews(ctx context.Context, w io.Writer, f http.Flusher, views <-chan reveal.View, idle time.Duration) error {
	limit := time.NewTimer(idle)
	defer limit.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-limit.C:
			return errors.New("reveal timed out")
		case v := <-views:
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return err
			}
			f.Flush()
			if v.State == reveal.Ended {
				return nil
			}
			limit.Reset(idle)
		}
	}
}

// handleMapSVG renders the map for the session.
// Query: width, height (viewport px), k, x, y (zoom transform), touch, plus settings.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	q := r.URL.Query()
	touch, _ := strconv.ParseBool(q.Get("touch"))

	// The target keeps the plain node colour until the game is over.
	palette := mapview.DefaultPalette
	if !snap.Finished {
		palette.Active = palette.Node
	}
	view := mapview.NewView(s.cat.Entities(), palette)
	view.Update(mapview.Inputs{
		Open:     true,
		Target:   snap.Target,
		Guesses:  snap.Guesses,
		Width:    floatParam(q.Get("width"), defaultMapWidth),
		Height:   floatParam(q.Get("height"), defaultMapHeight),
		Settings: settings.FromQuery(q),
		Touch:    touch,
		Title:    s.tr("mapTitle"),
	})
	if q.Has("k") || q.Has("x") || q.Has("y") {
		start := mapview.InitialTransform(touch)
		view.SetTransform(mapview.Transform{
			K: floatParam(q.Get("k"), start.K),
			X: floatParam(q.Get("x"), start.X),
			Y: floatParam(q.Get("y"), start.Y),
		})
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if err := mapview.WriteSVG(w, view.Scene(), palette); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("write map")
		return
	}
	s.metrics.mapRenders.Inc()
}

func floatParam(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// ------------------------------ persistence --------------------------------

// recordGameStart writes the owner row for history/stats. Best effort.
func (s *Server) recordGameStart(w http.ResponseWriter, r *http.Request, g *game.Game) {
	if s.db == nil {
		return
	}
	col, owner := s.ownerOf(w, r)
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+col+`, target_code, started_at, status, guesses) VALUES (?,?,?,?,?,0)`,
		g.ID, owner, g.Target.Code, g.StartedAt.Format(time.RFC3339), string(game.StatusPlaying))
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
}

// recordGuess bumps the guess counter, closes finished games and updates the
// account stats. Best effort.
func (s *Server) recordGuess(w http.ResponseWriter, r *http.Request, g *game.Game) {
	if s.db == nil {
		return
	}
	col, owner := s.ownerOf(w, r)
	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses=? WHERE id=? AND `+col+`=?`, len(g.Guesses), g.ID, owner); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}
	if g.Finished {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+col+`=?`,
			string(g.Status()), time.Now().UTC().Format(time.RFC3339), g.ID, owner); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me := userFrom(r.Context()); me != nil {
			if err := bumpStats(tx, me.ID, g.Won); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit guess")
	}
}
