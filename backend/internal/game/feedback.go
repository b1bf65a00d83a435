package game

import (
	"x-drive/backend/internal/audio"
)

// AudioFeedback выводит звуковые события из тяги, скорости и буста.
// Хранит состояние прошлого тика для поиска фронтов.
type AudioFeedback struct {
	sounds *audio.Set
	rec    *Recorder

	wasAccelerating bool
	wasBoost        bool
}

func NewAudioFeedback(sounds *audio.Set, rec *Recorder) *AudioFeedback {
	return &AudioFeedback{sounds: sounds, rec: rec}
}

// Update обрабатывает один тик
func (f *AudioFeedback) Update(engineForce, speed float64, boost bool) {
	if f == nil {
		return
	}
	s := f.sounds
	accelerating := engineForce != 0

	// Буст нажат на ходу: вторая ступень разгона вместе с визгом
	if accelerating && boost && !f.wasBoost {
		if s.Idle(audio.ChannelAccelStartTwo) && s.Idle(audio.ChannelSkid) {
			s.Play(audio.ChannelAccelStartTwo)
			s.Play(audio.ChannelSkid)
			f.rec.Emit(Event{Kind: EventBurnout, Subject: audio.ChannelAccelStartTwo.String(), Speed: speed})
		}
	}

	// Старт с места
	if accelerating && !f.wasAccelerating && speed < StandstillSpeed && s.Idle(audio.ChannelSkid) {
		if s.Idle(audio.ChannelAccelStart) {
			s.Play(audio.ChannelAccelStart)
			s.Play(audio.ChannelSkid)
			f.rec.Emit(Event{Kind: EventLaunch, Subject: audio.ChannelAccelStart.String(), Speed: speed})
		}
	}

	if accelerating && speed > StandstillSpeed {
		vol := MovingVolume
		if boost {
			vol = BoostMovingVolume
		}
		s.SetVolume(audio.ChannelAccelStartThree, vol)
		s.SetVolume(audio.ChannelEngine, EngineDriveVolume)
	} else {
		s.SetVolume(audio.ChannelAccelStartThree, 0)
		s.SetVolume(audio.ChannelEngine, EngineIdleVolume)
	}

	f.wasAccelerating = accelerating
	f.wasBoost = boost
}
