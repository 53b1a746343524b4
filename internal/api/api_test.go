package api_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/api"
	"github.com/tallyhq/tally/internal/api/middleware"
	"github.com/tallyhq/tally/internal/api/response"
	"github.com/tallyhq/tally/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Syncer:         app.Syncer,
		ProfileService: app.ProfileService,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, profile string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if profile != "" {
		req.Header.Set(middleware.ProfileHeader, profile)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createBoard creates a board for the given profile and returns its response
func (ts *testServer) createBoard(t *testing.T, profile, name string) response.Board {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/boards", map[string]string{"name": name}, profile)
	require.Equal(t, http.StatusCreated, rr.Code)

	var board response.Board
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	return board
}

// shareToken fetches the board's edit token as its owner
func (ts *testServer) shareToken(t *testing.T, profile, boardID string) string {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/boards/"+boardID+"/share", nil, profile)
	require.Equal(t, http.StatusOK, rr.Code)

	var link response.ShareLink
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &link))
	return link.EditToken
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestProfileMintedWhenAbsent(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/boards", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.ProfileHeader))
}

func TestProfileEchoedWhenPresent(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/boards", nil, "profile-1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "profile-1", rr.Header().Get(middleware.ProfileHeader))
}

func TestCreateBoard(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")
	assert.NotEmpty(t, board.ID)
	assert.Equal(t, "Office ping pong", board.Name)
	assert.True(t, board.CanEdit)
	assert.NotEmpty(t, board.OwnerID)
}

func TestCreateBoardRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/boards", map[string]string{}, "profile-1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListBoardsMarksSelected(t *testing.T) {
	ts := newTestServer(t)

	first := ts.createBoard(t, "profile-1", "First")
	second := ts.createBoard(t, "profile-1", "Second")

	rr := ts.request(http.MethodGet, "/api/v1/boards", nil, "profile-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.BoardList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Boards, 2)

	// Newest board is prepended and selected
	assert.Equal(t, second.ID, list.Boards[0].ID)
	assert.True(t, list.Boards[0].Selected)
	assert.Equal(t, first.ID, list.Boards[1].ID)
	assert.False(t, list.Boards[1].Selected)
	assert.NotEmpty(t, list.User.ID)
}

func TestGetUnknownBoard(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/boards/bd_missing", nil, "profile-1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "BOARD_NOT_FOUND")
}

func TestShareLinkFetchAcrossProfiles(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-owner", "Office ping pong")
	token := ts.shareToken(t, "profile-owner", board.ID)

	// A different profile opens the shared link with the token
	rr := ts.request(http.MethodGet, "/api/v1/boards/"+board.ID+"?token="+token, nil, "profile-guest")
	require.Equal(t, http.StatusOK, rr.Code)

	var opened response.Board
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opened))
	assert.Equal(t, board.ID, opened.ID)
	assert.True(t, opened.CanEdit)

	// Without the token the guest can view but not edit
	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-guest")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opened))
	assert.False(t, opened.CanEdit)
}

func TestShareEndpointGated(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-owner", "Office ping pong")

	// Guest must first know the board, so open it read-only
	rr := ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-guest")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID+"/share", nil, "profile-guest")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "EDIT_NOT_ALLOWED")
}

func TestBoardResponseNeverCarriesEditToken(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-owner", "Office ping pong")
	token := ts.shareToken(t, "profile-owner", board.ID)

	rr := ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-owner")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), token)
}

func TestAddPlayerAndActivity(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)

	var player response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	assert.Equal(t, "Alice", player.Name)
	assert.NotEmpty(t, player.ID)

	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/activities", map[string]string{"name": "Singles"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)

	var activity response.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &activity))
	assert.Equal(t, "Singles", activity.Name)
}

func TestGuestMutationRejectedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-owner", "Office ping pong")

	rr := ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-guest")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-guest")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "EDIT_NOT_ALLOWED")
}

func TestScoreLifecycleAndStandings(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")

	addPlayer := func(name string) response.Player {
		rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": name}, "profile-1")
		require.Equal(t, http.StatusCreated, rr.Code)
		var p response.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
		return p
	}
	alice := addPlayer("Alice")
	bob := addPlayer("Bob")

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/activities", map[string]string{"name": "Singles"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	var activity response.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &activity))

	scoreBody := map[string]any{
		"activity_id": activity.ID,
		"participants": []map[string]any{
			{"player_id": alice.ID, "points": 11},
			{"player_id": bob.ID, "points": 7},
		},
	}
	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/scores", scoreBody, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)

	var score response.Score
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &score))
	assert.NotEmpty(t, score.ID)
	assert.NotZero(t, score.Timestamp)

	// Standings: the winner takes 2, the loser 0
	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID+"/standings", nil, "profile-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []response.StandingsRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, alice.ID, rows[0].Player.ID)
	assert.Equal(t, 2, rows[0].Points)
	assert.Equal(t, 0, rows[1].Points)

	// Undo removes the most recent entry
	rr = ts.request(http.MethodDelete, "/api/v1/boards/"+board.ID+"/scores/last", nil, "profile-1")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-1")
	require.Equal(t, http.StatusOK, rr.Code)
	var opened response.Board
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opened))
	assert.Empty(t, opened.Scores)
}

func TestInvalidScoreRejected(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	var alice response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))

	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/activities", map[string]string{"name": "Singles"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	var activity response.Activity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &activity))

	// A single participant is not a match
	body := map[string]any{
		"activity_id": activity.ID,
		"participants": []map[string]any{
			{"player_id": alice.ID, "points": 11},
		},
	}
	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/scores", body, "profile-1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_SCORE")
}

func TestTransferOwnership(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-owner", "Office ping pong")
	token := ts.shareToken(t, "profile-owner", board.ID)

	// Find the guest's user id
	rr := ts.request(http.MethodGet, "/api/v1/boards", nil, "profile-guest")
	require.Equal(t, http.StatusOK, rr.Code)
	var guestList response.BoardList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guestList))

	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/transfer",
		map[string]string{"new_owner_id": guestList.User.ID}, "profile-owner")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The old token was rotated away
	rr = ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players?token="+token,
		map[string]string{"name": "Alice"}, "profile-owner")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSetPlayerPhoto(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	var alice response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/boards/"+board.ID+"/players/"+alice.ID+"/photo", &buf)
	req.Header.Set(middleware.ProfileHeader, "profile-1")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID, nil, "profile-1")
	require.Equal(t, http.StatusOK, rr.Code)
	var opened response.Board
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opened))
	require.Len(t, opened.Players, 1)
	assert.Contains(t, opened.Players[0].Photo, "data:image/jpeg;base64,")
}

func TestSetPlayerPhotoRejectsGarbage(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Office ping pong")

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	var alice response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &alice))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/boards/"+board.ID+"/players/"+alice.ID+"/photo",
		bytes.NewBufferString("not an image"))
	req.Header.Set(middleware.ProfileHeader, "profile-1")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMAGE_DECODE_FAILED")
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-donor", "Foosball")
	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-donor")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/export", nil, "profile-donor")
	require.Equal(t, http.StatusOK, rr.Code)
	exported := rr.Body.Bytes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(exported))
	req.Header.Set(middleware.ProfileHeader, "profile-receiver")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list response.BoardList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Boards, 1)
	assert.Equal(t, "Foosball", list.Boards[0].Name)
}

func TestBoardExportIsInterchangeShape(t *testing.T) {
	ts := newTestServer(t)

	board := ts.createBoard(t, "profile-1", "Foosball")
	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.ID+"/players", map[string]string{"name": "Alice"}, "profile-1")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.ID+"/export", nil, "profile-1")
	require.Equal(t, http.StatusOK, rr.Code)

	// The dump is the stored shape, not the API response shape: the edit
	// token travels with it and no capability field is added
	var dump map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dump))
	assert.Equal(t, board.ID, dump["id"])
	assert.NotEmpty(t, dump["editToken"])
	assert.NotContains(t, dump, "can_edit")

	state, ok := dump["state"].(map[string]any)
	require.True(t, ok)
	players, ok := state["players"].([]any)
	require.True(t, ok)
	require.Len(t, players, 1)
}

func TestBoardExportUnknownBoard(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/boards/nope/export", nil, "profile-1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "BOARD_NOT_FOUND")
}

func TestImportRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", bytes.NewBufferString("{broken"))
	req.Header.Set(middleware.ProfileHeader, "profile-1")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MALFORMED_IMPORT")
}
