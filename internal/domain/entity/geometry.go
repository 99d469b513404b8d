package entity

import "errors"

// Ошибки извлечения геометрии. Каждая причина доводится до пользователя
// как есть, без обобщения.
var (
	ErrLoadFailed       = errors.New("failed to load image")
	ErrNoContour        = errors.New("no foreground contour found")
	ErrDegenerateRegion = errors.New("largest region has zero area")
	ErrNoRadii          = errors.New("radial scan produced no samples")
)

// Geometry — измеренная геометрия кольца: центр и два радиуса в пикселях.
type Geometry struct {
	CenterX     int // координата X центра
	CenterY     int // координата Y центра
	OuterRadius int // средний внешний радиус
	InnerRadius int // средний внутренний радиус
}

// Center возвращает координаты центра кольца.
func (g Geometry) Center() (x, y int) {
	return g.CenterX, g.CenterY
}
