package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxbax0808/Bergle/internal/daily"
	"github.com/maxbax0808/Bergle/internal/game"
)

func TestDailyFlow(t *testing.T) {
	env := newTestEnv(t, true)
	c := env.client()
	target := env.cat.At(daily.TargetIndex(testDay, env.cfg.DailySalt, env.cat.Len()))

	rec := c.do(t, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[dailyNewRes](t, rec)
	assert.Equal(t, "2024-03-14", first.Date)
	assert.False(t, first.Played)
	require.NotEmpty(t, first.GameID)

	again := decode[dailyNewRes](t, c.do(t, http.MethodPost, "/daily/new", nil))
	assert.Equal(t, first.GameID, again.GameID, "session is reused")

	// another player gets their own game with the same target
	other := env.client()
	theirs := decode[dailyNewRes](t, other.do(t, http.MethodPost, "/daily/new", nil))
	assert.NotEqual(t, first.GameID, theirs.GameID)

	rec = other.do(t, http.MethodPost, "/daily/guess", map[string]string{"gameId": first.GameID, "guess": target.Name})
	assert.Equal(t, http.StatusConflict, rec.Code, "cannot play someone else's game")

	rec = c.do(t, http.MethodPost, "/daily/guess", map[string]string{"gameId": first.GameID, "guess": target.Name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dailyGuessRes](t, rec)
	assert.Equal(t, game.StatusWon, res.State)
	assert.Equal(t, "2024-03-14", res.Date)
	require.NotNil(t, res.Target)
	assert.Equal(t, target.Code, res.Target.Code)

	played := decode[dailyNewRes](t, c.do(t, http.MethodPost, "/daily/new", nil))
	assert.True(t, played.Played)
	assert.Empty(t, played.GameID)

	lb := decode[lbRes](t, c.do(t, http.MethodGet, "/daily/leaderboard", nil))
	assert.Equal(t, "2024-03-14", lb.Date)
	require.Len(t, lb.Top, 1)
	assert.True(t, lb.Top[0].Won)
	assert.Equal(t, 1, lb.Top[0].Guesses)
	assert.Equal(t, 100, lb.Top[0].BestPercent)

	assert.Equal(t, http.StatusBadRequest, c.do(t, http.MethodGet, "/daily/leaderboard?date=yesterday", nil).Code)
	empty := decode[lbRes](t, c.do(t, http.MethodGet, "/daily/leaderboard?date=2024-01-01", nil))
	assert.Empty(t, empty.Top)
}

func TestDailyWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, false)
	c := env.client()

	rec := c.do(t, http.MethodPost, "/daily/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[dailyNewRes](t, rec).GameID)

	lb := decode[lbRes](t, c.do(t, http.MethodGet, "/daily/leaderboard", nil))
	assert.NotNil(t, lb.Top)
	assert.Empty(t, lb.Top)
}

func TestDailyGame_RejectsFreePlayGuess(t *testing.T) {
	env := newTestEnv(t, true)
	c := env.client()
	target := env.cat.At(daily.TargetIndex(testDay, env.cfg.DailySalt, env.cat.Len()))
	id := decode[dailyNewRes](t, c.do(t, http.MethodPost, "/daily/new", nil)).GameID

	r := guess(t, c, id, target.Name)
	assert.Equal(t, http.StatusConflict, r.code)
	assert.Contains(t, r.body, "/daily/guess")

	rec := c.do(t, http.MethodPost, "/daily/guess", map[string]string{"gameId": id, "guess": target.Name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, game.StatusWon, decode[dailyGuessRes](t, rec).State)

	lb := decode[lbRes](t, c.do(t, http.MethodGet, "/daily/leaderboard", nil))
	assert.Len(t, lb.Top, 1, "result is recorded")
}

func TestDailySessions_PrunedOnNewDay(t *testing.T) {
	env := newTestEnv(t, false)
	a, b := env.client(), env.client()

	first := decode[dailyNewRes](t, a.do(t, http.MethodPost, "/daily/new", nil))
	b.do(t, http.MethodPost, "/daily/new", nil)
	assert.Len(t, env.srv.daily.sessions, 2)

	env.day = testDay.Add(24 * time.Hour)
	next := decode[dailyNewRes](t, a.do(t, http.MethodPost, "/daily/new", nil))
	assert.Equal(t, "2024-03-15", next.Date)
	assert.NotEqual(t, first.GameID, next.GameID)
	require.Len(t, env.srv.daily.sessions, 1)
	for _, sess := range env.srv.daily.sessions {
		assert.Equal(t, "2024-03-15", sess.Date)
	}
}
