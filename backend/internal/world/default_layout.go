package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultLayout возвращает встроенную раскладку демо-площадки
func DefaultLayout() *Layout {
	objects := []Object{
		{Name: "map", Position: mgl64.Vec3{0, -0.05, 0}, Size: mgl64.Vec3{200, 0.1, 200}},
		{Name: "car", Position: mgl64.Vec3{0, 0.6, -20}, Size: mgl64.Vec3{1, 0.46, 2.6}},

		{Name: "rock_1", Position: mgl64.Vec3{12, 0.6, 5}, Size: mgl64.Vec3{2, 1.2, 1.8}},
		{Name: "rock_2", Position: mgl64.Vec3{-15, 0.5, 12}, Size: mgl64.Vec3{1.6, 1, 1.6}, Yaw: 0.4},
		{Name: "rock_3", Position: mgl64.Vec3{25, 0.8, -18}, Size: mgl64.Vec3{2.5, 1.6, 2.2}},

		{Name: "post_1", Position: mgl64.Vec3{-6, 1, -10}, Size: mgl64.Vec3{0.4, 2, 0.4}},
		{Name: "post_2", Position: mgl64.Vec3{6, 1, -10}, Size: mgl64.Vec3{0.4, 2, 0.4}},

		{Name: "board_about", Position: mgl64.Vec3{0, 1.5, 8}, Size: mgl64.Vec3{0.3, 3, 4}, Yaw: math.Pi / 2},
		{Name: "board_projects", Position: mgl64.Vec3{-22, 1.5, -2}, Size: mgl64.Vec3{0.3, 3, 4}},

		{Name: "tree_1", Position: mgl64.Vec3{-25, 3, -25}, Size: mgl64.Vec3{3, 6, 3}},
		{Name: "tree_2", Position: mgl64.Vec3{30, 3, 20}, Size: mgl64.Vec3{3, 6, 3}},
		{Name: "tree_3", Position: mgl64.Vec3{-30, 3, 28}, Size: mgl64.Vec3{3, 6, 3}},

		{Name: "sign_welcome", Position: mgl64.Vec3{-4, 1.2, -16}, Size: mgl64.Vec3{1.5, 2.4, 1.5}},
		{Name: "contact_board", Position: mgl64.Vec3{18, 1.5, 28}, Size: mgl64.Vec3{4, 3, 0.4}},

		{Name: "ramp_1", Position: mgl64.Vec3{0, 0.5, 20}, Size: mgl64.Vec3{4, 1, 8}},

		{Name: "letter_x", Position: mgl64.Vec3{-14, 0.5, 8}, Size: mgl64.Vec3{0.8, 1, 0.3}},
		{Name: "letter_d", Position: mgl64.Vec3{-12.8, 0.5, 8}, Size: mgl64.Vec3{0.8, 1, 0.3}},

		{Name: "parking_gmail", Position: mgl64.Vec3{-20, 0.01, -10}, Size: mgl64.Vec3{4, 0.02, 6}, URL: "mailto:hello@example.com"},
		{Name: "parking_linkdin", Position: mgl64.Vec3{20, 0.01, -10}, Size: mgl64.Vec3{4, 0.02, 6}, URL: "https://www.linkedin.com/in/example"},
	}

	for i := 0; i < 8; i++ {
		objects = append(objects, Object{
			Name:     fmt.Sprintf("brick_%d", i+1),
			Position: mgl64.Vec3{-14 + float64(i)*0.6, 0.1, 4},
			Size:     mgl64.Vec3{0.4, 0.2, 0.8},
		})
	}

	return &Layout{Objects: objects}
}
