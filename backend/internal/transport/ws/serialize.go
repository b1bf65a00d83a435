package ws

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/game"
	"x-drive/backend/internal/world"
)

// safeVec заменяет NaN и бесконечности нулем
func safeVec(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		if !finite(v[i]) {
			v[i] = 0
		}
	}
	return v
}

// NewSceneMessage описывает раскладку, по которой построена сессия
func NewSceneMessage(layout *world.Layout, zones []world.Zone, spawn game.Pose) *SceneMessage {
	msg := &SceneMessage{
		Type:    MessageTypeScene,
		Objects: make([]SceneObject, 0),
		Zones:   make([]SceneZone, 0, len(zones)),
		Spawn:   spawn,
	}

	if layout != nil {
		for _, obj := range layout.Objects {
			yaw := obj.Yaw
			if math.IsNaN(yaw) {
				yaw = 0
			}
			msg.Objects = append(msg.Objects, SceneObject{
				Name:     obj.Name,
				Kind:     world.Classify(obj.Name).String(),
				Position: safeVec(obj.Position),
				Size:     safeVec(obj.Size),
				Yaw:      yaw,
				URL:      obj.URL,
			})
		}
	}

	for _, z := range zones {
		msg.Zones = append(msg.Zones, SceneZone{Name: z.Name, URL: z.URL, Min: z.Min, Max: z.Max})
	}
	return msg
}
