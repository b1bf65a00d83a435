package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"x-drive/backend/internal/audio"
	port "x-drive/backend/internal/core/port/out/physics"
)

// Classification - неизменяемые множества тел сцены
type Classification interface {
	IsWall(id port.BodyID) bool
	IsHittable(id port.BodyID) bool
	IsBrick(id port.BodyID) bool
}

// BodyLookup находит тело по идентификатору
type BodyLookup interface {
	Body(id port.BodyID) (port.Body, bool)
}

// Classifier разбирает контакты шага: удары кузова и удары кирпичей
type Classifier struct {
	chassisID port.BodyID
	sets      Classification
	bodies    BodyLookup
	sounds    *audio.Set
	bricks    *audio.BrickVoice
	reset     *ResetController
	impact    *Cooldown
	rec       *Recorder
}

func NewClassifier(chassisID port.BodyID, sets Classification, bodies BodyLookup, sounds *audio.Set,
	bricks *audio.BrickVoice, reset *ResetController, rec *Recorder) *Classifier {
	return &Classifier{
		chassisID: chassisID,
		sets:      sets,
		bodies:    bodies,
		sounds:    sounds,
		bricks:    bricks,
		reset:     reset,
		impact:    NewCooldown(ImpactCooldown),
		rec:       rec,
	}
}

// Process обрабатывает контакты в порядке их появления
func (c *Classifier) Process(contacts []port.Contact, now float64) {
	if c == nil || c.sets == nil {
		return
	}
	for _, contact := range contacts {
		if other, ok := contact.Other(c.chassisID); ok {
			c.chassisHit(other, contact.ImpactVelocity, now)
		}
		if c.sets.IsBrick(contact.A) {
			c.brickHit(contact.A, contact.ImpactVelocity)
		}
		if c.sets.IsBrick(contact.B) {
			c.brickHit(contact.B, contact.ImpactVelocity)
		}
	}
}

func (c *Classifier) chassisHit(other port.BodyID, impactVelocity, now float64) {
	if c.sets.IsHittable(other) && c.sounds.Has(audio.ChannelImpact) && c.impact.Ready(now) {
		if speed := math.Abs(impactVelocity); speed > ImpactThreshold {
			c.sounds.Restart(audio.ChannelImpact)
			c.impact.Stamp(now)
			c.rec.Emit(Event{Kind: EventImpact, Subject: string(other), Position: c.position(c.chassisID), Speed: speed})
		}
	}

	if c.sets.IsWall(other) && c.reset.FullReset() {
		c.rec.Emit(Event{Kind: EventWallReset, Subject: string(other), Position: c.reset.Spawn().Position, Speed: math.Abs(impactVelocity)})
	}
}

func (c *Classifier) brickHit(brick port.BodyID, impactVelocity float64) {
	speed := math.Abs(impactVelocity)
	if speed <= BrickImpactSpeed || !c.bricks.Available() {
		return
	}
	pos := c.position(brick)
	if _, ok := c.bricks.Trigger(pos); ok {
		c.rec.Emit(Event{Kind: EventBrickImpact, Subject: string(brick), Position: pos, Speed: speed})
	}
}

func (c *Classifier) position(id port.BodyID) mgl64.Vec3 {
	if c.bodies == nil {
		return mgl64.Vec3{}
	}
	if b, ok := c.bodies.Body(id); ok {
		return b.Position()
	}
	return mgl64.Vec3{}
}
