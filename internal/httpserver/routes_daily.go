// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Each player gets one result per day (UNIQUE in the DB plus the in-memory
// session map). Daily games live in the regular session store, so the reveal
// stream and map routes work on them unchanged.

package httpserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/maxbax0808/Bergle/internal/daily"
	"github.com/maxbax0808/Bergle/internal/game"
	"github.com/maxbax0808/Bergle/internal/reveal"
	"github.com/maxbax0808/Bergle/internal/settings"
)

const maxLeaderboardLimit = 100

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	results  *daily.Store // nil without a database
	sessions map[string]*dailySession // keyed by userID|date
	mu       sync.Mutex
}

// dailySession links a player's day to a game in the session store.
type dailySession struct {
	Date        string
	GameID      string
	TargetIndex int
	Start       time.Time
	Recorded    bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	d := &dailyServer{srv: s, sessions: make(map[string]*dailySession)}
	s.daily = d
	if s.db != nil {
		d.results = daily.NewStore(s.db)
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// today returns today's date key and target index.
func (d *dailyServer) today() (string, int) {
	now := d.srv.now()
	return daily.DateKey(now), daily.TargetIndex(now, d.srv.cfg.DailySalt, d.srv.cat.Len())
}

func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r.Context()); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

type dailyNewRes struct {
	GameID     string `json:"gameId"`
	Date       string `json:"date"`
	Played     bool   `json:"played"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNew creates or reuses today's session. A player with a stored result
// for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	date, idx := d.today()

	if d.results != nil {
		played, err := d.results.AlreadyPlayed(r.Context(), uid, date)
		if err != nil {
			log.Warn().Err(err).Msg("daily already played")
		} else if played {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
			return
		}
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prune(date)
	if sess, ok := d.sessions[key]; ok {
		writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.GameID, Date: date, MaxGuesses: game.DefaultMaxGuesses})
		return
	}

	g := game.New(d.srv.cat.At(idx))
	g.Mode = game.ModeDaily
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = &dailySession{Date: date, GameID: g.ID, TargetIndex: idx, Start: d.srv.now()}
	d.srv.metrics.gamesStarted.WithLabelValues("daily").Inc()

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, MaxGuesses: g.MaxGuesses})
}

// prune drops sessions from days before today. Callers hold d.mu.
func (d *dailyServer) prune(today string) {
	for key, sess := range d.sessions {
		if sess.Date < today {
			delete(d.sessions, key)
		}
	}
}

type dailyGuessRes struct {
	guessRes
	Date string `json:"date"`
}

// handleGuess applies a guess to today's session and stores the result once
// the game is over.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := d.srv.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	uid := d.playerID(w, r)
	date, _ := d.today()

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.GameID != req.GameID {
		writeError(w, http.StatusConflict, "no session")
		return
	}

	var (
		guess game.Guess
		snap  game.Game
	)
	err := d.srv.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		var err error
		if guess, err = g.ApplyGuess(d.srv.cat, req.Guess); err != nil {
			return err
		}
		snap = *g
		snap.Guesses = g.History()
		return nil
	})
	if err != nil {
		d.srv.metrics.guesses.WithLabelValues("rejected").Inc()
		d.srv.writeGameError(w, err)
		return
	}
	outcome := "miss"
	if guess.Exact() {
		outcome = "hit"
	}
	d.srv.metrics.guesses.WithLabelValues(outcome).Inc()

	if snap.Finished {
		d.record(r, uid, date, sess, &snap)
	}

	set := settings.FromQuery(r.URL.Query())
	res := dailyGuessRes{
		guessRes: guessRes{
			Guess: guess,
			Row:   reveal.Render(reveal.Ended, &guess, d.srv.cfg.RevealUnit, d.srv.prox, set, d.srv.tr),
			State: snap.Status(),
		},
		Date: date,
	}
	if snap.Finished {
		res.Target = &catalogEntry{Code: snap.Target.Code, Name: snap.Target.Name, Bydel: snap.Target.Bydel}
	}
	writeJSON(w, http.StatusOK, res)
}

// record persists the day's result once per session. Best effort.
func (d *dailyServer) record(r *http.Request, uid, date string, sess *dailySession, g *game.Game) {
	d.mu.Lock()
	if sess.Recorded {
		d.mu.Unlock()
		return
	}
	sess.Recorded = true
	d.mu.Unlock()

	if d.results == nil {
		return
	}
	res := daily.Result{
		UserID:      uid,
		Date:        date,
		TargetIndex: sess.TargetIndex,
		Guesses:     len(g.Guesses),
		Won:         g.Won,
		BestPercent: g.BestPercent(d.srv.prox),
		ElapsedMs:   int(d.srv.now().Sub(sess.Start).Milliseconds()),
	}
	if err := d.results.InsertResult(r.Context(), res); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today) and
// ?limit= (default 20).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if d.results == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: date, Top: []daily.LBRow{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	rows, err := d.results.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
