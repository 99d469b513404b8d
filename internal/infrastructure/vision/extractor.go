//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"donut-inspector/internal/domain/entity"
)

const (
	adaptiveWindow  = 11 // окно локального порога
	adaptiveOffset  = 2  // сдвиг относительно среднего по окну
	morphKernelSize = 5  // квадратное ядро морфологии
)

// GoCVExtractor измеряет геометрию кольца через OpenCV.
type GoCVExtractor struct{}

// NewGoCVExtractor создаёт экстрактор геометрии.
func NewGoCVExtractor() *GoCVExtractor {
	return &GoCVExtractor{}
}

// ExtractFile измеряет геометрию кольца по пути к файлу.
// Поддерживаются PNG, JPEG, BMP и TIFF.
func (e *GoCVExtractor) ExtractFile(ctx context.Context, path string) (*entity.Geometry, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", entity.ErrLoadFailed, path)
	}
	defer mat.Close()

	return e.extract(ctx, mat)
}

// Extract измеряет центр и радиусы кольца на изображении.
func (e *GoCVExtractor) Extract(ctx context.Context, imageData []byte) (*entity.Geometry, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return e.extract(ctx, mat)
}

// extract запускает конвейер: градации серого, локально-адаптивный порог,
// морфологическая очистка, выбор крупнейшего контура, центроид по моментам
// и радиальный скан.
func (e *GoCVExtractor) extract(ctx context.Context, mat gocv.Mat) (*entity.Geometry, error) {
	_ = ctx

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Локально-адаптивный порог устойчив к неравномерному освещению:
	// пиксель становится передним планом, если он темнее среднего по
	// своей окрестности больше чем на сдвиг.
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, adaptiveWindow, adaptiveOffset)

	// Открытие убирает точечный шум, закрытие заделывает мелкие разрывы,
	// граница кольца при этом не смещается.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(morphKernelSize, morphKernelSize))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(binary, &opened, gocv.MorphOpen, kernel)

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.MorphologyEx(opened, &cleaned, gocv.MorphClose, kernel)

	contours := gocv.FindContours(cleaned, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, entity.ErrNoContour
	}

	largest := 0
	largestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largest, largestArea = i, area
		}
	}

	cx, cy, err := contourCentroid(contours, largest, cleaned.Rows(), cleaned.Cols())
	if err != nil {
		return nil, err
	}

	outerSamples, innerSamples := radialScan(matToMask(cleaned), cx, cy)
	outer, inner, err := measureRadii(outerSamples, innerSamples)
	if err != nil {
		return nil, err
	}

	return &entity.Geometry{
		CenterX:     cx,
		CenterY:     cy,
		OuterRadius: outer,
		InnerRadius: inner,
	}, nil
}

// contourCentroid считает центроид области по растровым моментам залитого
// контура: cx = M10/M00, cy = M01/M00 с усечением до целого.
func contourCentroid(contours gocv.PointsVector, idx, rows, cols int) (int, int, error) {
	filled := gocv.Zeros(rows, cols, gocv.MatTypeCV8U)
	defer filled.Close()
	gocv.DrawContours(&filled, contours, idx, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	m := gocv.Moments(filled, true)
	if m["m00"] == 0 {
		return 0, 0, entity.ErrDegenerateRegion
	}

	return int(m["m10"] / m["m00"]), int(m["m01"] / m["m00"]), nil
}

// matToMask копирует бинарный Mat в маску, чтобы скан не ходил в cgo
// на каждый пиксель.
func matToMask(mat gocv.Mat) *bitMask {
	mask := newBitMask(mat.Cols(), mat.Rows())
	for y := 0; y < mat.Rows(); y++ {
		for x := 0; x < mat.Cols(); x++ {
			if mat.GetUCharAt(y, x) > 0 {
				mask.set(x, y)
			}
		}
	}
	return mask
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), entity.ErrLoadFailed
}
