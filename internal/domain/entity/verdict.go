package entity

// DefectType тип дефекта кольца
type DefectType string

const (
	DefectNone    DefectType = "none"            // Дефект не обнаружен
	DefectExtra   DefectType = "extra_portion"   // Наплыв: лишний материал
	DefectMissing DefectType = "missing_portion" // Скол: недостающий материал
)

// Description возвращает человекочитаемое название типа дефекта.
func (t DefectType) Description() string {
	switch t {
	case DefectExtra:
		return "Extra Portion (blob)"
	case DefectMissing:
		return "Missing Portion (chip)"
	default:
		return "None"
	}
}

// Verdict — итог сравнения тестовой детали с эталоном.
type Verdict struct {
	IsDefective bool       // признана ли деталь бракованной
	Type        DefectType // тип дефекта, DefectNone для годной детали
	Deviation   int        // суммарное отклонение радиусов в пикселях
}

// Classify сравнивает геометрию тестовой детали с эталонной.
// threshold — допустимое суммарное отклонение радиусов в пикселях.
// Деталь бракуется, когда отклонение строго больше порога; при равных
// отклонениях радиусов дефект считается сколом.
func Classify(perfect, current Geometry, threshold int) Verdict {
	diffOuter := absInt(current.OuterRadius - perfect.OuterRadius)
	diffInner := absInt(current.InnerRadius - perfect.InnerRadius)
	deviation := diffOuter + diffInner

	if deviation <= threshold {
		return Verdict{Type: DefectNone, Deviation: deviation}
	}

	defectType := DefectMissing
	if diffOuter > diffInner {
		defectType = DefectExtra
	}

	return Verdict{IsDefective: true, Type: defectType, Deviation: deviation}
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
