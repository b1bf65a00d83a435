package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/physics"
)

// boundaryWall описывает одну стену по периметру карты
type boundaryWall struct {
	id          physics.BodyID
	position    mgl64.Vec3
	halfExtents mgl64.Vec3
	yaw         float64
}

// mapBoundary строит четыре стены вокруг карты. Все стены имеют длину вдоль оси Z карты,
// северная и южная повернуты на 90°.
func mapBoundary(mapObj Object, cfg BuildConfig) ([]boundaryWall, error) {
	center := mapObj.Position
	hx := mapObj.Size.X()*0.5 + cfg.WallOffset
	hz := mapObj.Size.Z()*0.5 + cfg.WallOffset
	if hx <= 0 || hz <= 0 {
		return nil, fmt.Errorf("map %q is too small for boundary offset %.1f: size %.1fx%.1f",
			mapObj.Name, cfg.WallOffset, mapObj.Size.X(), mapObj.Size.Z())
	}

	half := mgl64.Vec3{cfg.WallThickness * 0.5, cfg.WallHeight * 0.5, hz}
	yBottom := center.Y() - mapObj.Size.Y()*0.5 + cfg.WallHeight*0.5

	return []boundaryWall{
		{id: "wall_east", position: mgl64.Vec3{center.X() + hx, yBottom, center.Z()}, halfExtents: half},
		{id: "wall_west", position: mgl64.Vec3{center.X() - hx, yBottom, center.Z()}, halfExtents: half},
		{id: "wall_north", position: mgl64.Vec3{center.X(), yBottom, center.Z() + hz}, halfExtents: half, yaw: math.Pi / 2},
		{id: "wall_south", position: mgl64.Vec3{center.X(), yBottom, center.Z() - hz}, halfExtents: half, yaw: math.Pi / 2},
	}, nil
}

// horizontalBounds возвращает ограничивающий прямоугольник объекта с учетом поворота
func horizontalBounds(obj Object) (mgl64.Vec3, mgl64.Vec3) {
	hx, hy, hz := obj.Size.X()*0.5, obj.Size.Y()*0.5, obj.Size.Z()*0.5
	c, s := math.Abs(math.Cos(obj.Yaw)), math.Abs(math.Sin(obj.Yaw))
	ex := c*hx + s*hz
	ez := s*hx + c*hz
	ext := mgl64.Vec3{ex, hy, ez}
	return obj.Position.Sub(ext), obj.Position.Add(ext)
}
