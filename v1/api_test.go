package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusgames/fanzone-api/filter"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
	"github.com/campusgames/fanzone-api/services"
)

var testDBCounter atomic.Uint64

// testServer holds a fully wired API over an in-memory database, so
// tests can drive it the same way the app does: over HTTP.
type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	chat   *services.ChatService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:fanzone_v1_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.BannedWord{},
		&models.ChatMessage{},
		&models.ChatReaction{},
		&models.Match{},
		&models.MatchVote{},
		&models.MutedUser{},
		&models.Sport{},
		&models.Stream{},
		&models.Team{},
	))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	log := zap.NewNop()
	hub := realtime.NewHub(log)
	t.Cleanup(hub.Close)

	accountsService := &services.AccountsService{DB: db}
	authTokensService := &services.AuthTokensService{
		DB:            db,
		SigningPepper: "test-pepper",
	}
	chatService := &services.ChatService{
		DB:     db,
		Hub:    hub,
		Filter: filter.Default,
		Log:    log,
	}
	scheduleService := &services.ScheduleService{DB: db, Hub: hub}
	streamsService := &services.StreamsService{DB: db}
	votesService := &services.VotesService{DB: db, Hub: hub}
	tallyService := &services.TallyService{
		Votes: votesService,
		Hub:   hub,
		Log:   log,
	}
	t.Cleanup(tallyService.Close)

	server := &Server{
		AccountsService:   accountsService,
		AuthTokensService: authTokensService,
		ChatService:       chatService,
		ScheduleService:   scheduleService,
		StreamsService:    streamsService,
		VotesService:      votesService,
		TallyService:      tallyService,
	}
	router := gin.New()
	server.Setup(router.Group("v1"))

	return &testServer{
		router: router,
		db:     db,
		chat:   chatService,
	}
}

// post sends a JSON body to the route and decodes the JSON response
func (ts *testServer) post(t *testing.T, path, token string, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:51234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w.Code, parsed
}

func (ts *testServer) seedSport(t *testing.T, name, slug string) *models.Sport {
	t.Helper()
	sport := &models.Sport{Name: name, Slug: slug, CreatedDate: time.Now()}
	require.NoError(t, ts.db.Create(sport).Error)
	return sport
}

func (ts *testServer) seedAccount(t *testing.T, email, password string) *models.Account {
	t.Helper()
	account := &models.Account{
		Email:       email,
		Name:        "Jordan Reyes",
		CreatedDate: time.Now(),
	}
	require.NoError(t, account.SetPassword(password))
	require.NoError(t, ts.db.Create(account).Error)
	return account
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	code, resp := ts.post(t, "/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

const testDeviceID = "7b3c9a52-1f60-4c1e-9d0e-8a2f51c03b71"

//==============================================================================
// Chat routes
//==============================================================================

func TestChatSendAndHistory(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")

	code, resp := ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  sport.ID,
		"device_id": testDeviceID,
		"username":  "casey",
		"message":   "great save!",
	})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	message := data["message"].(map[string]any)
	assert.Equal(t, "great save!", message["body"])
	assert.Equal(t, "casey", message["username"])
	assert.Equal(t, false, message["censored"])

	code, resp = ts.post(t, "/v1/chat/history", "", gin.H{
		"sport_id": sport.ID,
	})
	require.Equal(t, http.StatusOK, code)
	data = resp["data"].(map[string]any)
	messages := data["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "great save!", messages[0].(map[string]any)["body"])
}

func TestChatSendRejectsBadDeviceID(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")

	code, resp := ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  sport.ID,
		"device_id": "not-a-uuid",
		"username":  "casey",
		"message":   "hello",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid device id", resp["error"])
}

func TestChatSendRejectsUnknownSport(t *testing.T) {
	ts := newTestServer(t)

	code, resp := ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  uint64(404),
		"device_id": testDeviceID,
		"username":  "casey",
		"message":   "hello",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "sport not found", resp["error"])
}

func TestChatSendMutedDevice(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")

	_, err := ts.chat.MuteUser(&services.ChatUserInfo{DeviceID: testDeviceID}, nil)
	require.NoError(t, err)

	code, resp := ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  sport.ID,
		"device_id": testDeviceID,
		"username":  "casey",
		"message":   "hello",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "you are muted in this chat", resp["error"])
}

//==============================================================================
// Auth routes and middleware
//==============================================================================

func TestAuthLoginAndWhoAmI(t *testing.T) {
	ts := newTestServer(t)
	account := ts.seedAccount(t, "staff@campusgames.example", "hunter2hunter2")

	token := ts.login(t, "staff@campusgames.example", "hunter2hunter2")

	code, resp := ts.post(t, "/v1/auth/whoami", token, gin.H{})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(account.ID), data["id"])
	assert.Equal(t, "staff@campusgames.example", data["email"])
	assert.Equal(t, "Jordan Reyes", data["name"])
	assert.NotEmpty(t, data["token"])
}

func TestAuthLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAccount(t, "staff@campusgames.example", "hunter2hunter2")

	code, resp := ts.post(t, "/v1/auth/login", "", gin.H{
		"email":    "staff@campusgames.example",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "incorrect email or password", resp["error"])
}

func TestAuthenticatedRoutesRequireLogin(t *testing.T) {
	ts := newTestServer(t)

	// No token at all
	code, resp := ts.post(t, "/v1/auth/whoami", "", gin.H{})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "login required", resp["error"])

	// A garbage token is treated as no login, not a server error
	code, resp = ts.post(t, "/v1/studio/chat/mute", "garbage.token.here", gin.H{
		"user": gin.H{"device_id": testDeviceID},
	})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "login required", resp["error"])
}

func TestStudioMuteBlocksSending(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")
	ts.seedAccount(t, "staff@campusgames.example", "hunter2hunter2")
	token := ts.login(t, "staff@campusgames.example", "hunter2hunter2")

	code, _ := ts.post(t, "/v1/studio/chat/mute", token, gin.H{
		"user": gin.H{"device_id": testDeviceID},
	})
	require.Equal(t, http.StatusOK, code)

	code, resp := ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  sport.ID,
		"device_id": testDeviceID,
		"username":  "casey",
		"message":   "hello",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "you are muted in this chat", resp["error"])

	// Unmute and the device can post again
	code, _ = ts.post(t, "/v1/studio/chat/unmute", token, gin.H{
		"user": gin.H{"device_id": testDeviceID},
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.post(t, "/v1/chat/send", "", gin.H{
		"sport_id":  sport.ID,
		"device_id": testDeviceID,
		"username":  "casey",
		"message":   "hello",
	})
	require.Equal(t, http.StatusOK, code)
}

//==============================================================================
// Votes routes
//==============================================================================

func TestVotesCastAndTally(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")
	match := &models.Match{
		SportID:     sport.ID,
		HomeTeam:    "Falcons",
		AwayTeam:    "Owls",
		Status:      models.MatchStatusLive,
		StartsAt:    time.Now(),
		CreatedDate: time.Now(),
	}
	require.NoError(t, ts.db.Create(match).Error)

	code, resp := ts.post(t, "/v1/votes/cast", "", gin.H{
		"match_id":  match.ID,
		"device_id": testDeviceID,
		"team":      "Falcons",
	})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	vote := data["vote"].(map[string]any)
	assert.Equal(t, "Falcons", vote["team_voted"])

	// A team not playing in the match is rejected
	code, _ = ts.post(t, "/v1/votes/cast", "", gin.H{
		"match_id":  match.ID,
		"device_id": testDeviceID,
		"team":      "Sharks",
	})
	require.Equal(t, http.StatusBadRequest, code)

	code, resp = ts.post(t, "/v1/votes/tally", "", gin.H{
		"match_id": match.ID,
	})
	require.Equal(t, http.StatusOK, code)
	data = resp["data"].(map[string]any)
	counts := data["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["Falcons"])
	assert.Equal(t, float64(1), data["total"])
}

//==============================================================================
// App state and schedule routes
//==============================================================================

func TestAppState(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")
	require.NoError(t, ts.db.Create(&models.Team{
		SportID:     sport.ID,
		Name:        "Falcons",
		CreatedDate: time.Now(),
	}).Error)
	require.NoError(t, ts.db.Create(&models.Stream{
		SportID:     sport.ID,
		Title:       "Futsal court A",
		Channel:     "campusgames_a",
		Live:        true,
		CreatedDate: time.Now(),
	}).Error)

	code, resp := ts.post(t, "/v1/app/get-state", "", gin.H{})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)

	sports := data["sports"].([]any)
	require.Len(t, sports, 1)
	entry := sports[0].(map[string]any)
	assert.Equal(t, "Futsal", entry["sport"].(map[string]any)["name"])
	require.Len(t, entry["teams"].([]any), 1)

	liveStreams := data["live_streams"].([]any)
	require.Len(t, liveStreams, 1)
	assert.Equal(t, "Futsal court A", liveStreams[0].(map[string]any)["title"])
	assert.NotEmpty(t, data["server_time"])
}

func TestScheduleStandingsRoute(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")
	require.NoError(t, ts.db.Create(&models.Match{
		SportID:     sport.ID,
		HomeTeam:    "Falcons",
		AwayTeam:    "Owls",
		HomeScore:   2,
		AwayScore:   0,
		Status:      models.MatchStatusFinished,
		StartsAt:    time.Now(),
		CreatedDate: time.Now(),
	}).Error)

	code, resp := ts.post(t, "/v1/schedule/standings", "", gin.H{
		"sport_slug": "futsal",
	})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	standings := data["standings"].([]any)
	require.Len(t, standings, 2)
	first := standings[0].(map[string]any)
	assert.Equal(t, "Falcons", first["team"])
	assert.Equal(t, float64(3), first["points"])

	// Unknown sports come back as a client error
	code, resp = ts.post(t, "/v1/schedule/standings", "", gin.H{
		"sport_slug": "chess",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "sport not found", resp["error"])
}

func TestStudioMatchLifecycle(t *testing.T) {
	ts := newTestServer(t)
	sport := ts.seedSport(t, "Futsal", "futsal")
	ts.seedAccount(t, "staff@campusgames.example", "hunter2hunter2")
	token := ts.login(t, "staff@campusgames.example", "hunter2hunter2")

	code, resp := ts.post(t, "/v1/studio/matches/create", token, gin.H{
		"sport_id":  sport.ID,
		"home_team": "Falcons",
		"away_team": "Owls",
		"venue":     "Court A",
		"starts_at": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, code)
	data := resp["data"].(map[string]any)
	match := data["match"].(map[string]any)
	assert.Equal(t, "scheduled", match["status"])
	matchID := uint64(match["id"].(float64))

	code, resp = ts.post(t, "/v1/studio/matches/update", token, gin.H{
		"match_id":   matchID,
		"status":     "live",
		"home_score": 1,
	})
	require.Equal(t, http.StatusOK, code)
	data = resp["data"].(map[string]any)
	match = data["match"].(map[string]any)
	assert.Equal(t, "live", match["status"])
	assert.Equal(t, float64(1), match["home_score"])
}
