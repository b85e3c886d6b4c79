package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItemsRaw() string {
	items := testItems()
	return strings.Join(items[:], "\n")
}

func TestParseItems(t *testing.T) {
	items := testItems()

	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name:    "exactly 25",
			raw:     strings.Join(items[:], "\n"),
			wantErr: false,
		},
		{
			name:    "blank lines are discarded",
			raw:     "\n\n" + strings.Join(items[:], "\n\n  \n") + "\n\t\n",
			wantErr: false,
		},
		{
			name:    "24 items",
			raw:     strings.Join(items[:24], "\n"),
			wantErr: true,
		},
		{
			name:    "26 items",
			raw:     strings.Join(items[:], "\n") + "\nextra",
			wantErr: true,
		},
		{
			name:    "empty input",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := parseItems(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, items, parsed)
		})
	}
}

func TestParseItemsTruncatesLongPrompts(t *testing.T) {
	items := testItems()
	items[0] = strings.Repeat("x", 300)

	parsed, err := parseItems(strings.Join(items[:], "\n"))
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("x", maxItemLength), parsed[0])
	assert.Equal(t, items[1:], parsed[1:])
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "trimmed", in: "  bob \t", want: "bob"},
		{name: "empty becomes placeholder", in: "", want: "anonymous"},
		{name: "whitespace becomes placeholder", in: " \t\n ", want: "anonymous"},
		{name: "truncated to 40 runes", in: strings.Repeat("é", 50), want: strings.Repeat("é", 40)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeName(tc.in))
		})
	}
}

func TestNewRoomIDFormat(t *testing.T) {
	rm := newRoomManager(0)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := rm.newRoomID()

		require.Len(t, id, roomIDLength)
		for _, r := range id {
			assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
		}

		seen[id] = true
	}

	// 100 draws from a 36^6 space should never repeat.
	assert.Len(t, seen, 100)
}

func TestCreateRoomValidation(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)

	_, err := rm.createRoom(cfg, "bad", "only\nthree\nitems")
	require.Error(t, err)
	assert.Empty(t, rm.rooms)

	room, err := rm.createRoom(cfg, "  movie night  ", testItemsRaw())
	require.NoError(t, err)
	assert.Equal(t, "movie night", room.title)
	assert.Equal(t, testItems(), room.items)
	assert.NotZero(t, room.createdAt)
	assert.Empty(t, room.players)

	assert.Same(t, room, rm.lookupRoom(room.id))
}

func TestCreateRoomDefaultsTitle(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)

	room, err := rm.createRoom(cfg, "   ", testItemsRaw())
	require.NoError(t, err)
	assert.Equal(t, "bingo", room.title)
}

func TestLookupRoomIsCaseNormalized(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(0)

	room, err := rm.createRoom(cfg, "t", testItemsRaw())
	require.NoError(t, err)

	assert.Same(t, room, rm.lookupRoom(strings.ToLower(room.id)))
	assert.Same(t, room, rm.lookupRoom("  "+room.id+" "))
	assert.Nil(t, rm.lookupRoom("NOSUCH"))
}

func TestReaperEvictsIdleRooms(t *testing.T) {
	cfg := &Config{}
	rm := newRoomManager(50 * time.Millisecond)

	room, err := rm.createRoom(cfg, "t", testItemsRaw())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return rm.lookupRoom(room.id) == nil
	}, 2*time.Second, 10*time.Millisecond)

	// The room's run loop shuts down with it.
	select {
	case <-room.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected reaped room to be closed")
	}
}
