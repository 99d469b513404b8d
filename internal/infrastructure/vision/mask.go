package vision

// bitMask — бинарная маска переднего плана, один байт на пиксель.
// Живёт в пределах одного вызова экстрактора.
type bitMask struct {
	w, h int
	data []uint8
}

func newBitMask(w, h int) *bitMask {
	return &bitMask{w: w, h: h, data: make([]uint8, w*h)}
}

func (m *bitMask) set(x, y int) {
	m.data[y*m.w+x] = 1
}

func (m *bitMask) clear(x, y int) {
	m.data[y*m.w+x] = 0
}

func (m *bitMask) at(x, y int) bool {
	return m.data[y*m.w+x] != 0
}

func (m *bitMask) inBounds(x, y int) bool {
	return x >= 0 && x < m.w && y >= 0 && y < m.h
}
