package vision

import (
	"math"

	"donut-inspector/internal/domain/entity"
)

// radialScan обходит 360 лучей с шагом в один градус и для каждого угла
// собирает выборку внешнего и внутреннего радиуса. Луч идёт от края кадра
// к центру: первый пиксель переднего плана даёт внешний радиус, первый
// фоновый после него — внутренний. Если до центра фон так и не встретился,
// внутренней выборки для этого угла нет.
//
// Координаты пикселей усекаются к нулю (int-каст, не округление), чтобы
// выборки были попиксельно воспроизводимы между запусками.
func radialScan(m *bitMask, cx, cy int) (outer, inner []int) {
	maxR := minInt(m.w, m.h) / 2

	for angle := 0; angle < 360; angle++ {
		theta := float64(angle) * math.Pi / 180
		sin, cos := math.Sin(theta), math.Cos(theta)

		found := false
		for r := maxR - 1; r >= 0; r-- {
			x := int(float64(cx) + float64(r)*cos)
			y := int(float64(cy) + float64(r)*sin)
			if !m.inBounds(x, y) {
				if found {
					// Луч вышел за кадр между краями кольца, выборка этого
					// угла отбрасывается.
					break
				}
				continue
			}

			if !found {
				if m.at(x, y) {
					outer = append(outer, r)
					found = true
				}
				continue
			}

			if !m.at(x, y) {
				inner = append(inner, r)
				break
			}
		}
	}

	return outer, inner
}

// measureRadii усредняет выборки радиусов с округлением до пикселя.
// Возвращает ErrNoRadii, если хотя бы одна выборка пуста или средние
// радиусы несовместимы.
func measureRadii(outer, inner []int) (outerRadius, innerRadius int, err error) {
	if len(outer) == 0 || len(inner) == 0 {
		return 0, 0, entity.ErrNoRadii
	}

	outerRadius, innerRadius = roundMean(outer), roundMean(inner)

	// Выборки собираются по разным подмножествам углов: луч, оставшийся
	// на переднем плане до самого центра, даёт внешний радиус без
	// внутреннего. Если средние из-за этого разошлись, формы кольца
	// в маске нет и измерение недостоверно.
	if innerRadius > outerRadius {
		return 0, 0, entity.ErrNoRadii
	}

	return outerRadius, innerRadius, nil
}

func roundMean(samples []int) int {
	sum := 0
	for _, s := range samples {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(samples))))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
