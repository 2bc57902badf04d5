package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rpg_tracker/internal/achievement"
	httpserver "rpg_tracker/internal/http"
	"rpg_tracker/internal/http/handlers"
	"rpg_tracker/internal/repository"
	"rpg_tracker/internal/service"
	"rpg_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestE2E_UnlockPushedOverWS(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	audit := service.NewAuditService(repository.NewAuditRepository(pool))
	tokens, err := service.NewTokenManager("test-secret", service.NewMemoryRevoker())
	require.NoError(t, err)
	hub := ws.NewHub()
	defer hub.Close()

	achievements := service.NewAchievementService(achievement.DefaultCatalog(), repository.NewAchievementRepository(pool), audit, hub)
	require.NoError(t, achievements.Seed(ctx))
	players := repository.NewPlayerRepository(pool)

	h := &handlers.Handler{
		Auth:         service.NewAuthService(repository.NewAccountRepository(pool), tokens, audit),
		Players:      service.NewPlayerService(players, audit),
		Training:     service.NewTrainingService(players, audit),
		Achievements: achievements,
	}
	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Options{
		Handler: h,
		Health:  handlers.NewHealthHandler("test", map[string]handlers.Pinger{"database": pool}),
		Hub:     hub,
		Limits: httpserver.Limits{
			API: 1000, APIWindow: time.Minute,
			Auth: 1000, AuthWindow: time.Minute,
			Train: 1000, TrainWindow: time.Minute,
		},
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	post := func(path, token, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return res
	}

	name := uniqueName("ws")
	res := post("/api/v1/auth/register", "", `{"name":"`+name+`","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&sess))
	res.Body.Close()

	// opening the socket creates the player record
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + sess.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readType := func() (string, json.RawMessage) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var env ws.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env.Type, env.Payload
	}
	typ, _ := readType()
	require.Equal(t, ws.MsgReady, typ)

	// gold is not reachable through the API, set it directly
	_, err = pool.Exec(ctx, `UPDATE players SET gold = 1000 WHERE account_id = (SELECT id FROM accounts WHERE name = $1)`, name)
	require.NoError(t, err)

	res = post("/api/v1/achievements/check", sess.Token, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	typ, payload := readType()
	require.Equal(t, ws.MsgAchievements, typ)
	var unlocked ws.AchievementsPayload
	require.NoError(t, json.Unmarshal(payload, &unlocked))
	require.Len(t, unlocked.Achievements, 1)
	require.Equal(t, "gold_1000", unlocked.Achievements[0].ID)
}
