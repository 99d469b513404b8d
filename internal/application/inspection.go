package app

import (
	"context"
	"errors"
	"sync"

	"donut-inspector/internal/domain/entity"
	"donut-inspector/internal/domain/port"
)

// ErrNoReference возвращается, когда тестовое фото пришло раньше эталонного.
var ErrNoReference = errors.New("reference geometry is not found")

// InspectionService управляет сценарием проверки кольца по эталону:
// сначала измеряется эталонная геометрия, затем тестовая, после чего
// они сравниваются с настроенным порогом.
type InspectionService struct {
	users      *UserService
	extractor  port.GeometryExtractor
	threshold  int
	references map[int64]entity.Geometry
	mu         sync.RWMutex
}

// InspectionOutput содержит геометрию эталона, тестовой детали и вердикт.
type InspectionOutput struct {
	Reference entity.Geometry
	Current   entity.Geometry
	Verdict   entity.Verdict
}

// NewInspectionService создаёт сервис проверки колец.
// threshold — допустимое суммарное отклонение радиусов в пикселях.
func NewInspectionService(users *UserService, extractor port.GeometryExtractor, threshold int) *InspectionService {
	return &InspectionService{
		users:      users,
		extractor:  extractor,
		threshold:  threshold,
		references: make(map[int64]entity.Geometry),
	}
}

// AcceptReferencePhoto измеряет эталонную геометрию и переводит
// пользователя к ожиданию тестового фото. Ошибка извлечения возвращается
// как есть, состояние пользователя при этом не меняется.
func (s *InspectionService) AcceptReferencePhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.User, *entity.Geometry, error) {
	if s.extractor == nil {
		return nil, nil, errors.New("extractor is not configured")
	}

	geom, err := s.extractor.Extract(ctx, photo)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingTestPhoto)
	if err != nil {
		return nil, nil, err
	}

	// Храним геометрию эталона, чтобы сравнить со следующей фотографией.
	// Запись строго после смены состояния: при ошибке перехода эталон
	// не должен остаться в памяти.
	s.mu.Lock()
	s.references[userID] = *geom
	s.mu.Unlock()

	return user, geom, nil
}

// AcceptTestPhoto измеряет тестовую деталь, сравнивает её с эталоном
// и возвращает пользователя в главное меню.
func (s *InspectionService) AcceptTestPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.User, *InspectionOutput, error) {
	if s.extractor == nil {
		return nil, nil, errors.New("extractor is not configured")
	}

	s.mu.RLock()
	reference, ok := s.references[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNoReference
	}

	geom, err := s.extractor.Extract(ctx, photo)
	if err != nil {
		return nil, nil, err
	}

	verdict := entity.Classify(reference, *geom, s.threshold)

	user, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu)
	if err != nil {
		return nil, nil, err
	}

	return user, &InspectionOutput{Reference: reference, Current: *geom, Verdict: verdict}, nil
}

// CompareFiles измеряет эталонное и тестовое изображения по путям к файлам
// и сравнивает их. Используется в одноразовом консольном режиме.
func (s *InspectionService) CompareFiles(ctx context.Context, referencePath, testPath string) (*InspectionOutput, error) {
	if s.extractor == nil {
		return nil, errors.New("extractor is not configured")
	}

	reference, err := s.extractor.ExtractFile(ctx, referencePath)
	if err != nil {
		return nil, err
	}

	current, err := s.extractor.ExtractFile(ctx, testPath)
	if err != nil {
		return nil, err
	}

	verdict := entity.Classify(*reference, *current, s.threshold)

	return &InspectionOutput{Reference: *reference, Current: *current, Verdict: verdict}, nil
}
