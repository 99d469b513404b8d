package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"donut-inspector/internal/domain/entity"
	"donut-inspector/internal/infrastructure/storage"
)

// fakeExtractor отдаёт заранее заданные геометрии по очереди вызовов
// и по пути к файлу.
type fakeExtractor struct {
	queue  []entity.Geometry
	byPath map[string]entity.Geometry
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, imageData []byte) (*entity.Geometry, error) {
	if f.err != nil {
		return nil, f.err
	}
	geom := f.queue[f.calls%len(f.queue)]
	f.calls++
	return &geom, nil
}

func (f *fakeExtractor) ExtractFile(ctx context.Context, path string) (*entity.Geometry, error) {
	if f.err != nil {
		return nil, f.err
	}
	geom, ok := f.byPath[path]
	if !ok {
		return nil, entity.ErrLoadFailed
	}
	return &geom, nil
}

func newTestService(extractor *fakeExtractor, threshold int) *InspectionService {
	repo := storage.NewMemoryUserRepository()
	return NewInspectionService(NewUserService(repo), extractor, threshold)
}

func TestInspectionService_ReferenceThenTest(t *testing.T) {
	extractor := &fakeExtractor{queue: []entity.Geometry{
		{CenterX: 128, CenterY: 128, OuterRadius: 100, InnerRadius: 50},
		{CenterX: 128, CenterY: 128, OuterRadius: 106, InnerRadius: 50},
	}}
	svc := newTestService(extractor, 2)
	ctx := context.Background()

	user, reference, err := svc.AcceptReferencePhoto(ctx, 1, 10, []byte("reference"))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingTestPhoto, user.State)
	require.Equal(t, 100, reference.OuterRadius)

	user, out, err := svc.AcceptTestPhoto(ctx, 1, 10, []byte("test"))
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.True(t, out.Verdict.IsDefective)
	require.Equal(t, entity.DefectExtra, out.Verdict.Type)
	require.Equal(t, 6, out.Verdict.Deviation)
}

func TestInspectionService_GoodPart(t *testing.T) {
	extractor := &fakeExtractor{queue: []entity.Geometry{
		{OuterRadius: 100, InnerRadius: 50},
		{OuterRadius: 101, InnerRadius: 50},
	}}
	svc := newTestService(extractor, 2)
	ctx := context.Background()

	_, _, err := svc.AcceptReferencePhoto(ctx, 1, 10, []byte("reference"))
	require.NoError(t, err)

	_, out, err := svc.AcceptTestPhoto(ctx, 1, 10, []byte("test"))
	require.NoError(t, err)
	require.False(t, out.Verdict.IsDefective)
	require.Equal(t, entity.DefectNone, out.Verdict.Type)
	require.Equal(t, 1, out.Verdict.Deviation)
}

// failingUserRepo имитирует хранилище, у которого не проходит сохранение.
type failingUserRepo struct {
	*storage.MemoryUserRepository
	failSave bool
}

func (r *failingUserRepo) Save(ctx context.Context, user *entity.User) error {
	if r.failSave {
		return errors.New("save failed")
	}
	return r.MemoryUserRepository.Save(ctx, user)
}

func TestInspectionService_ReferenceNotStoredOnStateError(t *testing.T) {
	extractor := &fakeExtractor{queue: []entity.Geometry{
		{OuterRadius: 100, InnerRadius: 50},
	}}
	repo := &failingUserRepo{MemoryUserRepository: storage.NewMemoryUserRepository(), failSave: true}
	svc := NewInspectionService(NewUserService(repo), extractor, 2)
	ctx := context.Background()

	_, _, err := svc.AcceptReferencePhoto(ctx, 1, 10, []byte("reference"))
	require.Error(t, err)

	// Эталон не сохранился: следующее тестовое фото сравнивать не с чем.
	repo.failSave = false
	_, _, err = svc.AcceptTestPhoto(ctx, 1, 10, []byte("test"))
	require.ErrorIs(t, err, ErrNoReference)
}

func TestInspectionService_TestWithoutReference(t *testing.T) {
	extractor := &fakeExtractor{queue: []entity.Geometry{{OuterRadius: 100, InnerRadius: 50}}}
	svc := newTestService(extractor, 2)

	_, _, err := svc.AcceptTestPhoto(context.Background(), 1, 10, []byte("test"))
	require.ErrorIs(t, err, ErrNoReference)
}

func TestInspectionService_ExtractionFailurePropagated(t *testing.T) {
	extractor := &fakeExtractor{err: entity.ErrNoContour}
	svc := newTestService(extractor, 2)

	_, _, err := svc.AcceptReferencePhoto(context.Background(), 1, 10, []byte("blank"))
	require.ErrorIs(t, err, entity.ErrNoContour)
}

func TestInspectionService_CompareFiles(t *testing.T) {
	extractor := &fakeExtractor{byPath: map[string]entity.Geometry{
		"reference.png": {OuterRadius: 100, InnerRadius: 50},
		"chipped.png":   {OuterRadius: 100, InnerRadius: 56},
	}}
	svc := newTestService(extractor, 2)

	out, err := svc.CompareFiles(context.Background(), "reference.png", "chipped.png")
	require.NoError(t, err)
	require.True(t, out.Verdict.IsDefective)
	require.Equal(t, entity.DefectMissing, out.Verdict.Type)
	require.Equal(t, 6, out.Verdict.Deviation)
}

func TestInspectionService_CompareFiles_LoadError(t *testing.T) {
	extractor := &fakeExtractor{byPath: map[string]entity.Geometry{}}
	svc := newTestService(extractor, 2)

	_, err := svc.CompareFiles(context.Background(), "missing.png", "also-missing.png")
	require.ErrorIs(t, err, entity.ErrLoadFailed)
}
