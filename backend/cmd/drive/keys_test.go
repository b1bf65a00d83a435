package main

import (
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"x-drive/backend/internal/game"
)

type keyCall struct {
	name string
	down bool
}

type fakeStore struct {
	calls []keyCall
}

func (f *fakeStore) SetKey(name string, down bool) bool {
	if name == "f1" {
		return false
	}
	f.calls = append(f.calls, keyCall{name, down})
	return true
}

func TestKeyTracker_AutoRelease(t *testing.T) {
	store := &fakeStore{}
	tracker := newKeyTracker(store, 500*time.Millisecond)
	start := time.Unix(0, 0)

	assert.True(t, tracker.Press("w", start))
	// Автоповтор не порождает повторных нажатий
	assert.True(t, tracker.Press("w", start.Add(400*time.Millisecond)))
	assert.Equal(t, []keyCall{{"w", true}}, store.calls)

	assert.Zero(t, tracker.Expire(start.Add(800*time.Millisecond)), "repeat refreshed the key")
	assert.Equal(t, 1, tracker.Held())

	assert.Equal(t, 1, tracker.Expire(start.Add(901*time.Millisecond)))
	assert.Equal(t, []keyCall{{"w", true}, {"w", false}}, store.calls)
	assert.Zero(t, tracker.Held())
}

func TestKeyTracker_UnboundKey(t *testing.T) {
	store := &fakeStore{}
	tracker := newKeyTracker(store, 0)

	assert.False(t, tracker.Press("f1", time.Now()))
	assert.Zero(t, tracker.Held())
}

func TestKeyTracker_DrivesInputStore(t *testing.T) {
	store := game.NewInputStore()
	tracker := newKeyTracker(store, 100*time.Millisecond)
	start := time.Unix(0, 0)

	tracker.Press("w", start)
	tracker.Press("shift", start)
	in := store.Snapshot()
	assert.True(t, in.Held(game.KeyForward))
	assert.True(t, in.Held(game.KeyShift))

	tracker.Expire(start.Add(time.Second))
	in = store.Snapshot()
	assert.False(t, in.Held(game.KeyForward))
	assert.False(t, in.Held(game.KeyShift))
}

func TestKeyNames(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		expected []string
	}{
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), []string{"w"}},
		{"shift+w as capital", tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModNone), []string{"shift", "w"}},
		{"shift+w with modifier", tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModShift), []string{"shift", "w"}},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), []string{" "}},
		{"recovery", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), []string{"r"}},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), []string{"arrowleft"}},
		{"shift+arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), []string{"shift", "arrowup"}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), []string{"enter"}},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), nil},
		{"unbound key", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, keyNames(tt.ev))
		})
	}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, isQuit(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.False(t, isQuit(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)))
}

func TestCamera_LeftIsPositiveX(t *testing.T) {
	cam := camera{center: mgl64.Vec3{10, 0, 10}, width: 80, height: 24}

	col, row := cam.project(mgl64.Vec3{10, 0, 10})
	assert.Equal(t, 40, col)
	assert.Equal(t, 12, row)

	col, _ = cam.project(mgl64.Vec3{15, 0, 10})
	assert.Less(t, col, 40, "+X is drawn to the left")

	_, row = cam.project(mgl64.Vec3{10, 0, 20})
	assert.Less(t, row, 12, "+Z is drawn upwards")
}

func TestHeadingGlyph(t *testing.T) {
	assert.Equal(t, '↑', headingGlyph(0))
	assert.Equal(t, '←', headingGlyph(math.Pi/2), "yaw +90° faces +X, drawn to the left")
	assert.Equal(t, '↓', headingGlyph(math.Pi))
	assert.Equal(t, '→', headingGlyph(-math.Pi/2))
	assert.Equal(t, '↖', headingGlyph(math.Pi/4))
}
