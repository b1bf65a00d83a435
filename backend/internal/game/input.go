package game

import (
	"math"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	port "x-drive/backend/internal/core/port/out/physics"
)

// Key - логическая клавиша управления
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyShift
	KeyBrake
	KeyConfirm
	keyCount
)

// Имена клавиш в нижнем регистре, как их присылает браузер
var keyBindings = map[string]Key{
	"w":          KeyForward,
	"arrowup":    KeyForward,
	"s":          KeyBack,
	"arrowdown":  KeyBack,
	"a":          KeyLeft,
	"arrowleft":  KeyLeft,
	"d":          KeyRight,
	"arrowright": KeyRight,
	"shift":      KeyShift,
	" ":          KeyBrake,
	"space":      KeyBrake,
	"enter":      KeyConfirm,
}

// RecoveryKey запрашивает ручное восстановление машины
const RecoveryKey = "r"

// ParseKey возвращает логическую клавишу по имени
func ParseKey(name string) (Key, bool) {
	k, ok := keyBindings[strings.ToLower(name)]
	return k, ok
}

// Pointer - состояние навигации указателем
type Pointer struct {
	Active bool
	Target mgl64.Vec3
}

// InputState - снимок ввода на момент тика
type InputState struct {
	Keys    [keyCount]bool
	Pointer Pointer
}

func (s InputState) Held(k Key) bool {
	return k >= 0 && k < keyCount && s.Keys[k]
}

// InputStore принимает события ввода из любого потока, тик читает снимок
type InputStore struct {
	mu      sync.Mutex
	down    map[string]bool
	pointer Pointer

	pending requests
}

// requests - разовые запросы, которые тик забирает целиком
type requests struct {
	recovery bool
	confirm  bool
	start    bool
}

func NewInputStore() *InputStore {
	return &InputStore{down: make(map[string]bool)}
}

// SetKey отмечает нажатие или отпускание клавиши. Нажатия "r" и "enter" дополнительно
// ставят запрос на восстановление и подтверждение. Возвращает false для неизвестной клавиши.
func (s *InputStore) SetKey(name string, down bool) bool {
	name = strings.ToLower(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == RecoveryKey {
		if down {
			s.pending.recovery = true
		}
		return true
	}

	k, ok := keyBindings[name]
	if !ok {
		return false
	}
	if down && k == KeyConfirm && !s.down[name] {
		s.pending.confirm = true
	}
	if down {
		s.down[name] = true
	} else {
		delete(s.down, name)
	}
	return true
}

// SetPointer задает цель навигации указателем
func (s *InputStore) SetPointer(active bool, target mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pointer = Pointer{Active: active, Target: target}
}

// RequestRecovery ставит запрос на ручное восстановление
func (s *InputStore) RequestRecovery() {
	s.mu.Lock()
	s.pending.recovery = true
	s.mu.Unlock()
}

// RequestStart ставит запрос на запуск двигателя
func (s *InputStore) RequestStart() {
	s.mu.Lock()
	s.pending.start = true
	s.mu.Unlock()
}

// ReleaseAll отпускает все клавиши и выключает указатель
func (s *InputStore) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.down)
	s.pointer = Pointer{}
}

// Snapshot возвращает состояние ввода
func (s *InputStore) Snapshot() InputState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st InputState
	for name := range s.down {
		st.Keys[keyBindings[name]] = true
	}
	st.Pointer = s.pointer
	return st
}

// takeRequests забирает разовые запросы
func (s *InputStore) takeRequests() requests {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.pending
	s.pending = requests{}
	return r
}

// Control - управляющие значения одного тика
type Control struct {
	EngineForce float64 `json:"engineForce"`
	Steer       float64 `json:"steer"`
	Brake       bool    `json:"brake"`
	Boost       bool    `json:"boost"`
}

// Accelerating - на колеса подается тяга
func (c Control) Accelerating() bool { return c.EngineForce != 0 }

// Resolver сводит клавиши и указатель к Control
type Resolver struct {
	tuning Tuning
}

func NewResolver(t Tuning) Resolver {
	return Resolver{tuning: t}
}

// Resolve вычисляет управление. Активный указатель полностью заменяет клавиши
// движения и руления. Отрицательная тяга означает движение вперед.
func (r Resolver) Resolve(in InputState, chassis port.Body) Control {
	var c Control
	c.Brake = in.Held(KeyBrake)

	if in.Pointer.Active {
		if chassis != nil {
			c.EngineForce, c.Steer = r.navigate(chassis, in.Pointer.Target)
		}
		return c
	}

	t := r.tuning
	switch {
	case in.Held(KeyForward):
		c.EngineForce = -t.MaxForce
		if in.Held(KeyShift) {
			c.EngineForce *= t.BoostMultiplier
		}
	case in.Held(KeyBack):
		c.EngineForce = t.MaxForce
	}

	switch {
	case in.Held(KeyLeft):
		c.Steer = t.MaxSteer
	case in.Held(KeyRight):
		c.Steer = -t.MaxSteer
	}

	c.Boost = in.Held(KeyShift)
	return c
}

func (r Resolver) navigate(chassis port.Body, target mgl64.Vec3) (float64, float64) {
	t := r.tuning

	toTarget := target.Sub(chassis.Position())
	toTarget[1] = 0
	if toTarget.Len() <= StopDistance {
		return 0, 0
	}
	dir := toTarget.Normalize()

	fwd := chassis.Orientation().Rotate(mgl64.Vec3{0, 0, 1})
	fwd[1] = 0
	if fwd.Len() < 1e-9 {
		return 0, 0
	}

	var force, steer float64
	dot := fwd.Dot(dir)
	switch {
	case dot > 0:
		force = -t.MaxForce
	case dot < ReverseThreshold:
		force = t.MaxForce * t.ReverseFactor
	}

	cosAngle := mgl64.Clamp(fwd.Normalize().Dot(dir), -1, 1)
	if angle := math.Acos(cosAngle); angle > SteerDeadZone {
		steer = math.Min(angle, t.MaxSteer)
		if fwd.Cross(dir).Y() <= 0 {
			steer = -steer
		}
	}

	// Развернутая от цели машина рулит в обратную сторону
	if dot < 0 {
		steer = -steer
	}
	return force, steer
}
