package view

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"right edge exclusive", 110, 40, false},
		{"bottom edge exclusive", 50, 70, false},
		{"left of rect", 9, 40, false},
		{"above rect", 50, 19, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectCenterX(t *testing.T) {
	r := Rect{X: 10, Y: 0, W: 100, H: 10}
	if got := r.CenterX(); got != 60 {
		t.Errorf("CenterX() = %v, want 60", got)
	}
}
