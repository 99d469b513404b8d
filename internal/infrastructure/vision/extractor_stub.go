//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"donut-inspector/internal/domain/entity"
)

// GoCVExtractor измеряет геометрию кольца через OpenCV.
type GoCVExtractor struct{}

// NewGoCVExtractor создаёт экстрактор-заглушку (без OpenCV).
func NewGoCVExtractor() *GoCVExtractor {
	return &GoCVExtractor{}
}

// Extract возвращает ошибку, если сборка без тега gocv.
func (e *GoCVExtractor) Extract(ctx context.Context, imageData []byte) (*entity.Geometry, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// ExtractFile возвращает ошибку, если сборка без тега gocv.
func (e *GoCVExtractor) ExtractFile(ctx context.Context, path string) (*entity.Geometry, error) {
	_ = ctx
	_ = path
	return nil, errors.New("gocv build tag is not enabled")
}
