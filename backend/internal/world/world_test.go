package world

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	port "x-drive/backend/internal/core/port/out/physics"
	"x-drive/backend/internal/physics"
)

func buildDefault(t *testing.T) *Scene {
	t.Helper()
	f := NewFactory(physics.DefaultConfig(), DefaultBuildConfig(), zerolog.Nop())
	scene, err := f.Build(DefaultLayout())
	require.NoError(t, err)
	return scene
}

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"map":             KindMap,
		"car":             KindCar,
		"rock_12":         KindRock,
		"post":            KindPost,
		"board_about":     KindBoard,
		"tree_3":          KindTree,
		"sign_x":          KindSign,
		"contact_board":   KindContact,
		"brick_1":         KindBrick,
		"letter_a":        KindLetter,
		"ramp_big":        KindRamp,
		"parking_gmail":   KindParking,
		"parking_linkdin": KindParking,
		"mapping":         KindUnknown,
		"lamp":            KindUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestBuild_DefaultLayoutClassification(t *testing.T) {
	scene := buildDefault(t)
	m := scene.Manager

	assert.Equal(t, port.BodyID("map"), m.GroundID())
	assert.True(t, m.IsHittable("map"), "ground is hittable")
	assert.Equal(t, []port.BodyID{"wall_east", "wall_north", "wall_south", "wall_west"}, m.Walls())

	car, ok := m.Object("car")
	require.True(t, ok)
	assert.Equal(t, car, m.Car())
	_, ok = m.Object("lamp")
	assert.False(t, ok)

	for _, id := range []port.BodyID{"rock_1", "post_2", "board_about", "tree_1", "sign_welcome", "contact_board"} {
		assert.True(t, m.IsHittable(id), id)
		assert.False(t, m.IsWall(id), id)
	}
	for _, id := range m.Walls() {
		assert.False(t, m.IsHittable(id), "walls and hittables are disjoint: %s", id)
	}

	assert.Len(t, m.Bricks(), 10)
	assert.True(t, m.IsBrick("brick_1"))
	assert.True(t, m.IsBrick("letter_x"))
	assert.False(t, m.IsHittable("brick_1"))

	assert.False(t, m.IsHittable("ramp_1"))
	assert.Equal(t, KindRamp, m.KindOf("ramp_1"))

	zones := m.Zones()
	require.Len(t, zones, 2)
	assert.Equal(t, "parking_gmail", zones[0].Name)
	assert.Equal(t, "mailto:hello@example.com", zones[0].URL)

	_, ok := scene.World.Body("brick_3")
	assert.True(t, ok)
	_, ok = scene.World.Body("parking_gmail")
	assert.False(t, ok, "parking pads have no body")
}

func TestBuild_BoundaryWalls(t *testing.T) {
	scene := buildDefault(t)

	east, ok := scene.World.Body("wall_east")
	require.True(t, ok)
	assert.InDelta(t, 40, east.Position().X(), 1e-9)
	assert.InDelta(t, -0.1+1.5, east.Position().Y(), 1e-9)

	north, ok := scene.World.Body("wall_north")
	require.True(t, ok)
	assert.InDelta(t, 40, north.Position().Z(), 1e-9)
	assert.InDelta(t, math.Pi/2, 2*math.Acos(north.Orientation().W), 1e-9)
}

func TestBuild_FootprintScale(t *testing.T) {
	scene := buildDefault(t)

	body, ok := scene.World.Body("post_1")
	require.True(t, ok)
	post := body.(*physics.RigidBody)
	assert.InDelta(t, 0.06, post.HalfExtents().X(), 1e-9)
	assert.InDelta(t, 1.0, post.HalfExtents().Y(), 1e-9)
	assert.True(t, post.IsStatic())

	body, _ = scene.World.Body("brick_1")
	brick := body.(*physics.RigidBody)
	assert.Equal(t, 1.0, brick.Mass())
}

func TestBuild_Errors(t *testing.T) {
	f := NewFactory(nil, DefaultBuildConfig(), zerolog.Nop())

	_, err := f.Build(&Layout{})
	assert.ErrorIs(t, err, ErrSceneEmpty)

	_, err = f.Build(&Layout{Objects: []Object{{Name: "car"}}})
	assert.ErrorIs(t, err, ErrMissingObject)

	_, err = f.Build(&Layout{Objects: []Object{
		{Name: "map", Size: mgl64.Vec3{50, 0.1, 50}},
		{Name: "car"},
	}})
	assert.ErrorContains(t, err, "too small")
}

func TestZone_ContainsXZ(t *testing.T) {
	z := Zone{Min: mgl64.Vec3{-1, 0, -2}, Max: mgl64.Vec3{1, 0, 2}}

	assert.True(t, z.ContainsXZ(mgl64.Vec3{0, 10, 0}), "height is ignored")
	assert.True(t, z.ContainsXZ(mgl64.Vec3{1, 0, 2}), "edges are inside")
	assert.False(t, z.ContainsXZ(mgl64.Vec3{1.01, 0, 0}))
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, z.Center())
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "scene.json")
	body := `{"objects":[{"name":"map","position":[0,-0.05,0],"size":[200,0.1,200]},{"name":"car","position":[1,0.6,2],"size":[1,0.5,2.6],"yaw":0.5}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	require.Len(t, layout.Objects, 2)
	assert.Equal(t, mgl64.Vec3{1, 0.6, 2}, layout.Objects[1].Position)
	assert.Equal(t, 0.5, layout.Objects[1].Yaw)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"objects":[]}`), 0644))
	_, err = LoadLayout(empty)
	assert.ErrorIs(t, err, ErrSceneEmpty)

	_, err = LoadLayout(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
