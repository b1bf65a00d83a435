package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RingBuffer(t *testing.T) {
	tm := NewTelemetryManager(zerolog.Nop())

	for i := 0; i < 250; i++ {
		tm.Record("s1", "impact", fmt.Sprintf("rock_%d", i), mgl64.Vec3{}, 2)
	}

	recent := tm.Recent()
	require.Len(t, recent, 200)
	assert.Equal(t, "rock_50", recent[0].Subject)
	assert.Equal(t, "rock_249", recent[199].Subject)
	assert.Equal(t, 250, tm.Totals()["impact"])
}

func TestSetEnabled(t *testing.T) {
	tm := NewTelemetryManager(zerolog.Nop())
	tm.SetEnabled(false)
	tm.Record("s1", "wall_reset", "wall_east", mgl64.Vec3{}, 0)
	assert.Empty(t, tm.Recent())

	tm.SetEnabled(true)
	tm.Record("s1", "wall_reset", "wall_east", mgl64.Vec3{}, 0)
	assert.Len(t, tm.Recent(), 1)

	tm.Clear()
	assert.Empty(t, tm.Recent())
	assert.Empty(t, tm.Totals())
}

func TestPrintSummary_Interval(t *testing.T) {
	var buf bytes.Buffer
	tm := NewTelemetryManager(zerolog.New(&buf).Level(zerolog.DebugLevel))

	current := time.Unix(1000, 0)
	tm.now = func() time.Time { return current }
	tm.lastPrint = current

	tm.Record("s1", "skid", "", mgl64.Vec3{}, 6)
	tm.PrintSummary()
	assert.Zero(t, buf.Len(), "interval has not elapsed")

	current = current.Add(11 * time.Second)
	tm.PrintSummary()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(1), entry["skid"])
	assert.Equal(t, float64(1), entry["entries"])
}

func TestGetTelemetryJSON(t *testing.T) {
	tm := NewTelemetryManager(zerolog.Nop())
	tm.Record("s1", "zone_enter", "parking_gmail", mgl64.Vec3{1, 2, 3}, 0.5)

	data, err := tm.GetTelemetryJSON()
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "parking_gmail", entries[0].Subject)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, entries[0].Position)
}
