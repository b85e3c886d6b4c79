// Bingobox prompt bingo
//
// A host submits a title and 25 prompts, and gets back a short room code.
// Players join over a websocket with that code and receive their own
// shuffled 5x5 board of the shared prompts. Tapping a cell toggles its
// mark; completed rows, columns, and diagonals score one line each, and
// a live leaderboard ranks players by line count.
//
// Features:
// - One websocket endpoint: join carries the room code, so a client can
//   retry after a "room not found" error without reconnecting
// - Per-room run loop serializes all join/toggle/disconnect mutation
// - Boards are independent uniform permutations of the room's prompts
// - Line counts recomputed in full on every toggle (5x5, so O(25))
// - Leaderboard sorted by lines desc, then join time asc, pushed to the
//   whole room on every change; slow clients are dropped
// - Disconnecting removes the player; rejoining is a brand-new player
// - Rooms auto-reaped after a configurable idle timeout
// - Random 6-char room codes via crypto/rand, with server-side collision check
// - PNG QR code for sharing the join URL, backed by go-qrcode

package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type   string `json:"type"`             // "join" or "toggle"
	RoomID string `json:"roomId,omitempty"` // join
	Name   string `json:"name,omitempty"`   // join
	Row    int    `json:"r"`                // toggle
	Col    int    `json:"c"`                // toggle
}

// BoardMessage carries one player's full board state, sent only to that
// player on join and after each toggle.
type BoardMessage struct {
	Type      string                       `json:"type"` // "board"
	Title     string                       `json:"title"`
	Name      string                       `json:"name"`
	Board     [boardSize][boardSize]string `json:"board"`
	Marks     [boardSize][boardSize]bool   `json:"marks"`
	LineCount int                          `json:"lineCount"`
}

// Sent to a single client when an inbound event fails.
type ErrorMessage struct {
	Type    string `json:"type"`    // "error"
	Message string `json:"message"` // user-facing text
}

type LeaderboardEntry struct {
	Name      string    `json:"name"`
	LineCount int       `json:"lineCount"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// LeaderboardMessage is the full ranked listing, broadcast to every
// client of a room on every change. No delta encoding.
type LeaderboardMessage struct {
	Type      string             `json:"type"` // "leaderboard"
	Players   []LeaderboardEntry `json:"players"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
	id   string
	room *Room // nil until a join succeeds; only readPump touches it
}

type joinRequest struct {
	client *Client
	name   string
}

type toggleRequest struct {
	client *Client
	row    int
	col    int
}

func (room *Room) run(cfg *Config) {
	for {
		select {
		case <-room.done:
			return

		case jr := <-room.joins:
			room.handleJoin(cfg, jr)

		case tr := <-room.toggles:
			room.handleToggle(tr)

		case c := <-room.unreg:
			room.handleLeave(cfg, c)
		}
	}
}

// handleJoin registers a fresh player for the connection: independent
// shuffled board, all-false marks, line count computed rather than
// assumed zero.
func (room *Room) handleJoin(cfg *Config, jr joinRequest) {
	c := jr.client

	room.mu.Lock()
	defer room.mu.Unlock()

	// closeAll closes done while holding the mutex, so checking it here
	// cannot race the reaper tearing this room down.
	select {
	case <-room.done:
		close(c.send)
		return
	default:
	}

	room.lastActive = time.Now()

	player := &Player{
		ID:       c.id,
		Name:     sanitizeName(jr.name),
		Board:    generateBoard(room.items),
		JoinedAt: time.Now(),
	}
	player.LineCount = countLines(player.Marks)

	room.clients[c] = true
	room.players[c.id] = player

	logf(cfg, "GAMES: Player %q joined %s", player.Name, room.id)

	select {
	case c.send <- BoardMessage{
		Type:      "board",
		Title:     room.title,
		Name:      player.Name,
		Board:     player.Board,
		Marks:     player.Marks,
		LineCount: player.LineCount,
	}:
	default:
		delete(room.clients, c)
		close(c.send)
	}

	room.broadcastLeaderboardLocked()
}

// handleToggle flips one cell and recounts. Out-of-range indices are
// dropped without a reply; they only arise from a hand-rolled client.
func (room *Room) handleToggle(tr toggleRequest) {
	if tr.row < 0 || tr.row >= boardSize || tr.col < 0 || tr.col >= boardSize {
		return
	}

	c := tr.client

	room.mu.Lock()
	defer room.mu.Unlock()

	player, ok := room.players[c.id]
	if !ok {
		return
	}

	room.lastActive = time.Now()

	player.Marks[tr.row][tr.col] = !player.Marks[tr.row][tr.col]
	player.LineCount = countLines(player.Marks)

	select {
	case c.send <- BoardMessage{
		Type:      "board",
		Title:     room.title,
		Name:      player.Name,
		Board:     player.Board,
		Marks:     player.Marks,
		LineCount: player.LineCount,
	}:
	default:
		delete(room.clients, c)
		close(c.send)
	}

	room.broadcastLeaderboardLocked()
}

func (room *Room) handleLeave(cfg *Config, c *Client) {
	room.mu.Lock()
	defer room.mu.Unlock()

	room.lastActive = time.Now()

	if _, ok := room.clients[c]; ok {
		delete(room.clients, c)
		close(c.send)
	}

	if player, ok := room.players[c.id]; ok {
		delete(room.players, c.id)
		logf(cfg, "GAMES: Player %q left %s", player.Name, room.id)
	}

	room.broadcastLeaderboardLocked()
}

// rankPlayers projects players to leaderboard entries, sorted by line
// count descending with ties broken by earlier join time.
func rankPlayers(players map[string]*Player) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, LeaderboardEntry{
			Name:      p.Name,
			LineCount: p.LineCount,
			JoinedAt:  p.JoinedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].LineCount != entries[j].LineCount {
			return entries[i].LineCount > entries[j].LineCount
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})

	return entries
}

// broadcastLeaderboardLocked assumes room.mu is already held.
func (room *Room) broadcastLeaderboardLocked() {
	msg := LeaderboardMessage{
		Type:      "leaderboard",
		Players:   rankPlayers(room.players),
		Timestamp: time.Now(),
	}

	for client := range room.clients {
		select {
		case client.send <- msg:
		default:
			delete(room.clients, client)
			close(client.send)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS upgrades the connection and assigns it a fresh id. Joining a
// room happens over the socket itself, so an unknown room code leaves
// the connection usable for another attempt.
func serveWS(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade: %v", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
			id:   uuid.NewString(),
		}

		go client.writePump()
		client.readPump(rm)
	}
}

func (c *Client) readPump(rm *RoomManager) {
	defer func() {
		if c.room != nil {
			select {
			case c.room.unreg <- c:
			case <-c.room.done:
			}
		} else {
			close(c.send)
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		c.handleMessage(rm, msg)
	}
}

// handleMessage dispatches one inbound event. A connection is unjoined
// until its first successful join; joining an unknown room signals the
// sender and leaves the connection free to retry.
func (c *Client) handleMessage(rm *RoomManager, msg ClientMessage) {
	switch msg.Type {
	case "join":
		if c.room != nil {
			return
		}

		room := rm.lookupRoom(msg.RoomID)
		if room == nil {
			select {
			case c.send <- ErrorMessage{
				Type:    "error",
				Message: "room not found",
			}:
			default:
			}
			return
		}

		// The room can be reaped between lookup and this send, leaving
		// nothing to receive on joins.
		select {
		case room.joins <- joinRequest{client: c, name: msg.Name}:
			c.room = room
		case <-room.done:
			select {
			case c.send <- ErrorMessage{
				Type:    "error",
				Message: "room not found",
			}:
			default:
			}
		}

	case "toggle":
		if c.room == nil {
			return
		}

		select {
		case c.room.toggles <- toggleRequest{client: c, row: msg.Row, col: msg.Col}:
		case <-c.room.done:
		}

	default:
		// ignore unknown types
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// requestScheme derives the external scheme, respecting TLS and
// X-Forwarded-Proto if present.
func requestScheme(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme
}

func joinURL(scheme, host, prefix, roomID string) string {
	return scheme + "://" + host + prefix + "/play/" + roomID
}

func boardURL(scheme, host, prefix, roomID string) string {
	return scheme + "://" + host + prefix + "/board/" + roomID
}

type createRoomRequest struct {
	Title string `json:"title"`
	Items string `json:"items"`
}

type createRoomResponse struct {
	RoomID   string `json:"roomId"`
	JoinURL  string `json:"joinUrl"`
	BoardURL string `json:"boardUrl"`
	Title    string `json:"title"`
}

// createRoomHandler accepts a title plus 25 newline-separated prompts,
// as JSON or a form post, and responds with the room code and its URLs.
func createRoomHandler(cfg *Config, rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req createRoomRequest

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid json body")
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid form body")
				return
			}
			req.Title = r.PostFormValue("title")
			req.Items = r.PostFormValue("items")
		}

		room, err := rm.createRoom(cfg, req.Title, req.Items)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		scheme := requestScheme(r)

		w.Header().Set("Content-Type", "application/json")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createRoomResponse{
			RoomID:   room.id,
			JoinURL:  joinURL(scheme, r.Host, cfg.prefix, room.id),
			BoardURL: boardURL(scheme, r.Host, cfg.prefix, room.id),
			Title:    room.title,
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorMessage{
		Type:    "error",
		Message: message,
	})
}

// qrHandler generates a PNG QR code for the current room's join URL
// using go-qrcode.
func qrHandler(rm *RoomManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if rm.lookupRoom(roomID) == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// We are at /.../:roomid/qr; strip trailing "/qr" to get the join URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := requestScheme(r) + "://" + r.Host + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// registerBingo sets up routes so that:
//   - POST /api/rooms       → create a room from a title + 25 prompts
//   - /play/:roomid         → player page (HTML)
//   - /play/:roomid/qr      → PNG QR code for the join URL
//   - /board/:roomid        → host page with the room code and QR
//   - /ws                   → websocket shared by all rooms
func registerBingo(cfg *Config, rm *RoomManager, mux *httprouter.Router) {
	mux.POST(cfg.prefix+"/api/rooms", createRoomHandler(cfg, rm))

	mux.GET(cfg.prefix+"/play/:roomid", servePlayPage(cfg))
	mux.GET(cfg.prefix+"/play/:roomid/qr", qrHandler(rm))

	mux.GET(cfg.prefix+"/board/:roomid", serveBoardPage(cfg))

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, rm))
}
