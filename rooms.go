package main

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	roomIDLength  = 6
	maxItemLength = 100
	maxNameLength = 40
)

// Player holds one participant's live state within a room.
type Player struct {
	ID        string
	Name      string
	Board     [boardSize][boardSize]string
	Marks     [boardSize][boardSize]bool
	LineCount int
	JoinedAt  time.Time
}

// Room is an isolated bingo session. All player and client mutation is
// serialized through the run loop; the mutex exists so the reaper can
// read lastActive without racing it.
type Room struct {
	id        string
	title     string
	items     [boardArea]string
	createdAt time.Time

	clients map[*Client]bool
	players map[string]*Player

	joins   chan joinRequest
	toggles chan toggleRequest
	unreg   chan *Client
	done    chan struct{}

	mu sync.RWMutex

	lastActive time.Time
}

func newRoom(id, title string, items [boardArea]string) *Room {
	now := time.Now()
	return &Room{
		id:         id,
		title:      title,
		items:      items,
		createdAt:  now,
		lastActive: now,
		clients:    make(map[*Client]bool),
		players:    make(map[string]*Player),
		joins:      make(chan joinRequest),
		toggles:    make(chan toggleRequest),
		unreg:      make(chan *Client),
		done:       make(chan struct{}),
	}
}

// closeAll disconnects all clients of this room (used by the reaper).
func (room *Room) closeAll() {
	room.mu.Lock()
	defer room.mu.Unlock()

	for c := range room.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(room.clients, c)
	}
	clear(room.players)

	close(room.done)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// sanitizeName trims a display name, substitutes a placeholder for empty
// or whitespace-only input, and caps the length.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "anonymous"
	}
	return truncateRunes(name, maxNameLength)
}

// parseItems splits newline-separated prompts, discards blank lines, and
// requires exactly 25 survivors. Each item is capped to bound memory and
// payload size; duplicates are allowed.
func parseItems(raw string) ([boardArea]string, error) {
	var items [boardArea]string

	count := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if count < boardArea {
			items[count] = truncateRunes(line, maxItemLength)
		}
		count++
	}

	if count != boardArea {
		return items, fmt.Errorf("expected exactly %d items, got %d", boardArea, count)
	}
	return items, nil
}

// RoomManager holds the set of live rooms keyed by room code.
type RoomManager struct {
	mu          sync.Mutex
	rooms       map[string]*Room
	idleTimeout time.Duration
}

func newRoomManager(idleTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		rooms:       make(map[string]*Room),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go rm.reaperLoop()
	}
	return rm
}

// newRoomID generates a crypto-random room code and ensures it doesn't
// collide with an existing live room.
func (rm *RoomManager) newRoomID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const max = byte(255 - (256 % len(letters)))

	for {
		out := make([]byte, 0, roomIDLength)
		buf := make([]byte, roomIDLength*2)

		for len(out) < roomIDLength {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}

			for _, b := range buf {
				if b <= max {
					out = append(out, letters[int(b)%len(letters)])
					if len(out) == roomIDLength {
						break
					}
				}
			}
		}
		id := string(out)

		rm.mu.Lock()
		_, exists := rm.rooms[id]
		rm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// createRoom validates the prompt list, registers a new room under a
// fresh code, and starts its run loop.
func (rm *RoomManager) createRoom(cfg *Config, title, rawItems string) (*Room, error) {
	items, err := parseItems(rawItems)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "bingo"
	}
	title = truncateRunes(title, maxItemLength)

	room := newRoom(rm.newRoomID(), title, items)

	rm.mu.Lock()
	rm.rooms[room.id] = room
	rm.mu.Unlock()

	go room.run(cfg)

	logf(cfg, "ROOMS: Created room %s (%q)", room.id, title)

	return room, nil
}

// lookupRoom returns the live room for a code, or nil. Codes are
// case-normalized so transcribed lowercase input still resolves.
func (rm *RoomManager) lookupRoom(id string) *Room {
	id = strings.ToUpper(strings.TrimSpace(id))

	rm.mu.Lock()
	defer rm.mu.Unlock()

	return rm.rooms[id]
}

// reaperLoop periodically removes rooms that have been idle longer than
// idleTimeout.
func (rm *RoomManager) reaperLoop() {
	ticker := time.NewTicker(rm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-rm.idleTimeout)

		rm.mu.Lock()
		for id, room := range rm.rooms {
			room.mu.RLock()
			last := room.lastActive
			room.mu.RUnlock()

			if last.Before(cutoff) {
				delete(rm.rooms, id)
				go room.closeAll()
			}
		}
		rm.mu.Unlock()
	}
}
