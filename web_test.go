package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(cfg *Config, rm *RoomManager) *httprouter.Router {
	mux := httprouter.New()
	registerBingo(cfg, rm, mux)
	return mux
}

func TestCreateRoomAPI(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)
	mux := newTestMux(cfg, rm)

	body, err := json.Marshal(createRoomRequest{
		Title: "movie night",
		Items: testItemsRaw(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "http://bingo.example.com/api/rooms", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createRoomResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Len(t, resp.RoomID, roomIDLength)
	assert.Equal(t, "movie night", resp.Title)
	assert.Equal(t, "http://bingo.example.com/play/"+resp.RoomID, resp.JoinURL)
	assert.Equal(t, "http://bingo.example.com/board/"+resp.RoomID, resp.BoardURL)

	assert.NotNil(t, rm.lookupRoom(resp.RoomID))
}

func TestCreateRoomAPIAcceptsForms(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)
	mux := newTestMux(cfg, rm)

	form := url.Values{}
	form.Set("title", "standup")
	form.Set("items", testItemsRaw())

	req := httptest.NewRequest(http.MethodPost, "http://bingo.example.com/api/rooms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateRoomAPIRejectsWrongItemCount(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)
	mux := newTestMux(cfg, rm)

	items := testItems()

	for _, raw := range []string{
		strings.Join(items[:24], "\n"),
		strings.Join(items[:], "\n") + "\nextra",
	} {
		body, err := json.Marshal(createRoomRequest{Title: "t", Items: raw})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "http://bingo.example.com/api/rooms", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorMessage
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Message, "expected exactly 25 items")

		assert.Empty(t, rm.rooms)
	}
}

func TestQRHandlerUnknownRoom(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)
	mux := newTestMux(cfg, rm)

	req := httptest.NewRequest(http.MethodGet, "http://bingo.example.com/play/ZZZZZZ/qr", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQRHandlerReturnsPNG(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)
	mux := newTestMux(cfg, rm)

	room, err := rm.createRoom(cfg, "t", testItemsRaw())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://bingo.example.com/play/"+room.id+"/qr", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
