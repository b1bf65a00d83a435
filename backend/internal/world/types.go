package world

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind - класс объекта сцены, определяемый по имени
type Kind int

const (
	KindUnknown Kind = iota
	KindMap
	KindCar
	KindRock
	KindPost
	KindBoard
	KindTree
	KindSign
	KindContact
	KindBrick
	KindLetter
	KindRamp
	KindParking
)

var kindNames = map[Kind]string{
	KindUnknown: "unknown",
	KindMap:     "map",
	KindCar:     "car",
	KindRock:    "rock",
	KindPost:    "post",
	KindBoard:   "board",
	KindTree:    "tree",
	KindSign:    "sign",
	KindContact: "contact",
	KindBrick:   "brick",
	KindLetter:  "letter",
	KindRamp:    "ramp",
	KindParking: "parking",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify определяет класс объекта по имени в том же порядке проверок, что и загрузчик сцены
func Classify(name string) Kind {
	switch {
	case name == "map":
		return KindMap
	case name == "car":
		return KindCar
	case strings.HasPrefix(name, "rock"):
		return KindRock
	case strings.HasPrefix(name, "post"):
		return KindPost
	case strings.HasPrefix(name, "board"):
		return KindBoard
	case strings.HasPrefix(name, "tree"):
		return KindTree
	case strings.HasPrefix(name, "sign"):
		return KindSign
	case strings.HasPrefix(name, "brick"):
		return KindBrick
	case strings.HasPrefix(name, "letter"):
		return KindLetter
	case strings.HasPrefix(name, "ramp"):
		return KindRamp
	case strings.HasPrefix(name, "parking_"):
		return KindParking
	case strings.HasPrefix(name, "contact"):
		return KindContact
	}
	return KindUnknown
}

// Object - именованный объект раскладки. Position - центр ограничивающего параллелепипеда,
// Size - его полный размер до поворота на Yaw вокруг вертикали.
type Object struct {
	Name     string     `json:"name"`
	Position mgl64.Vec3 `json:"position"`
	Size     mgl64.Vec3 `json:"size"`
	Yaw      float64    `json:"yaw,omitempty"`
	URL      string     `json:"url,omitempty"`
}

// Layout - полная раскладка сцены
type Layout struct {
	Objects []Object `json:"objects"`
}

// Zone - парковочная зона, ведущая на внешнюю ссылку
type Zone struct {
	Name string
	URL  string
	Min  mgl64.Vec3
	Max  mgl64.Vec3
}

// ContainsXZ проверяет попадание точки в зону по горизонтали
func (z Zone) ContainsXZ(p mgl64.Vec3) bool {
	return p.X() >= z.Min.X() && p.X() <= z.Max.X() &&
		p.Z() >= z.Min.Z() && p.Z() <= z.Max.Z()
}

// Center возвращает центр зоны
func (z Zone) Center() mgl64.Vec3 {
	return z.Min.Add(z.Max).Mul(0.5)
}
