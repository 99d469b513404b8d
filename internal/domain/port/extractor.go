package port

import (
	"context"

	"donut-inspector/internal/domain/entity"
)

// GeometryExtractor интерфейс измерителя геометрии кольца
type GeometryExtractor interface {
	// Extract измеряет центр и радиусы кольца на изображении
	Extract(ctx context.Context, imageData []byte) (*entity.Geometry, error)

	// ExtractFile измеряет геометрию кольца по пути к файлу
	ExtractFile(ctx context.Context, path string) (*entity.Geometry, error)
}
