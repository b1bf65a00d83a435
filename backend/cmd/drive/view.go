package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/game"
	"x-drive/backend/internal/physics"
	"x-drive/backend/internal/world"
)

// Масштаб вида сверху: символ терминала примерно вдвое выше своей ширины
const (
	colsPerUnit = 1.0
	rowsPerUnit = 0.5
)

var (
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleCar    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBrick  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSleep  = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleZone   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleEvent  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// camera проецирует мировые XZ на экран. Вверх на экране - мировая +Z,
// влево - мировая +X, так что машина, смотрящая вверх, поворачивает влево к +X.
type camera struct {
	center        mgl64.Vec3
	width, height int
}

func (c camera) project(p mgl64.Vec3) (int, int) {
	col := float64(c.width)/2 - (p.X()-c.center.X())*colsPerUnit
	row := float64(c.height)/2 - (p.Z()-c.center.Z())*rowsPerUnit
	return int(math.Round(col)), int(math.Round(row))
}

// sprite - статичный прямоугольник сцены
type sprite struct {
	min, max mgl64.Vec3
	glyph    rune
	style    tcell.Style
}

var kindGlyphs = map[world.Kind]rune{
	world.KindRock:    'o',
	world.KindPost:    'i',
	world.KindBoard:   '=',
	world.KindTree:    'T',
	world.KindSign:    '!',
	world.KindContact: '@',
	world.KindRamp:    '/',
}

type extentBody interface {
	HalfExtents() mgl64.Vec3
}

// staticSprites собирает стены, препятствия и зоны сцены
func staticSprites(scene *world.Scene) []sprite {
	var out []sprite

	for _, z := range scene.Manager.Zones() {
		out = append(out, sprite{min: z.Min, max: z.Max, glyph: '░', style: styleZone})
	}

	add := func(id physics.BodyID, glyph rune) {
		b, ok := scene.World.Body(id)
		if !ok {
			return
		}
		eb, ok := b.(extentBody)
		if !ok {
			return
		}
		h := eb.HalfExtents()
		out = append(out, sprite{min: b.Position().Sub(h), max: b.Position().Add(h), glyph: glyph, style: tcell.StyleDefault})
	}

	for _, id := range scene.Manager.Walls() {
		add(id, '#')
	}
	for _, id := range scene.Manager.Hittables() {
		if glyph, ok := kindGlyphs[scene.Manager.KindOf(id)]; ok {
			add(id, glyph)
		}
	}
	return out
}

// headingGlyph выбирает стрелку по рысканию машины
func headingGlyph(yaw float64) rune {
	arrows := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	// Вперед - (sin yaw, cos yaw) в XZ; на экране вверх это +Z, вправо это -X
	a := math.Atan2(math.Cos(yaw), -math.Sin(yaw))
	idx := int(math.Round(a/(math.Pi/4))) % 8
	if idx < 0 {
		idx += 8
	}
	return arrows[idx]
}

func drawText(screen tcell.Screen, col, row int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// render рисует кадр: статус, карту вокруг машины и последние события
func render(screen tcell.Screen, sprites []sprite, frame game.Frame, log []string) {
	screen.Clear()
	width, height := screen.Size()
	cam := camera{center: frame.Chassis.Position, width: width, height: height}

	for _, s := range sprites {
		c0, r0 := cam.project(s.max)
		c1, r1 := cam.project(s.min)
		for row := max(r0, 1); row <= min(r1, height-2); row++ {
			for col := max(c0, 0); col <= min(c1, width-1); col++ {
				screen.SetContent(col, row, s.glyph, nil, s.style)
			}
		}
	}

	for _, b := range frame.Bricks {
		col, row := cam.project(b.Position)
		style := styleBrick
		if b.Sleeping {
			style = styleSleep
		}
		screen.SetContent(col, row, '▪', nil, style)
	}

	q := frame.Chassis.Rotation
	yaw := physics.YawFromQuat(mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}})
	col, row := cam.project(frame.Chassis.Position)
	screen.SetContent(col, row, headingGlyph(yaw), nil, styleCar)

	status := fmt.Sprintf(" %5.1f м/с  сила %6.0f  руль %+.2f", frame.Speed, frame.Control.EngineForce, frame.Control.Steer)
	if frame.Control.Brake {
		status += "  ТОРМОЗ"
	}
	if frame.Control.Boost {
		status += "  УСКОРЕНИЕ"
	}
	if frame.Zone != "" {
		status += "  зона " + frame.Zone + " (enter)"
	}
	for i := 0; i < width; i++ {
		screen.SetContent(i, 0, ' ', nil, styleStatus)
	}
	drawText(screen, 0, 0, styleStatus, status)

	for i, line := range log {
		drawText(screen, 1, height-1-len(log)+i, styleEvent, line)
	}
	drawText(screen, max(width-44, 0), height-1, tcell.StyleDefault.Dim(true), "wasd/стрелки shift пробел r enter q")

	screen.Show()
}
