package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
)

// fakeCatalogRepo is an in-memory CatalogRepository for unit tests.
type fakeCatalogRepo struct {
	types map[string]*domain.HardwareType
	infos map[string]*domain.HardwareInfo

	infosByType    map[string]int
	hardwareByInfo map[string]int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		types:          map[string]*domain.HardwareType{},
		infos:          map[string]*domain.HardwareInfo{},
		infosByType:    map[string]int{},
		hardwareByInfo: map[string]int{},
	}
}

func (f *fakeCatalogRepo) ListHardwareTypes(ctx context.Context, _ repository.HardwareTypeFilter, _ repository.ListOptions) ([]*domain.HardwareType, int, error) {
	out := []*domain.HardwareType{}
	for _, t := range f.types {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (f *fakeCatalogRepo) GetHardwareType(ctx context.Context, id string) (*domain.HardwareType, error) {
	t, ok := f.types[id]
	if !ok {
		return nil, domain.NotFound("Hardware Type")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeCatalogRepo) CreateHardwareType(ctx context.Context, t *domain.HardwareType) error {
	t.ID = "type-" + t.Name
	f.types[t.ID] = t
	return nil
}

func (f *fakeCatalogRepo) UpdateHardwareType(ctx context.Context, t *domain.HardwareType) error {
	if _, ok := f.types[t.ID]; !ok {
		return domain.NotFound("Hardware Type")
	}
	f.types[t.ID] = t
	return nil
}

func (f *fakeCatalogRepo) DeleteHardwareType(ctx context.Context, id string) error {
	if _, ok := f.types[id]; !ok {
		return domain.NotFound("Hardware Type")
	}
	delete(f.types, id)
	return nil
}

func (f *fakeCatalogRepo) HardwareTypeNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	for id, t := range f.types {
		if t.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalogRepo) CountInfosByType(ctx context.Context, typeID string) (int, error) {
	return f.infosByType[typeID], nil
}

func (f *fakeCatalogRepo) ListHardwareInfos(ctx context.Context, _ repository.HardwareInfoFilter, _ repository.ListOptions) ([]*domain.HardwareInfo, int, error) {
	out := []*domain.HardwareInfo{}
	for _, i := range f.infos {
		out = append(out, i)
	}
	return out, len(out), nil
}

func (f *fakeCatalogRepo) GetHardwareInfo(ctx context.Context, id string) (*domain.HardwareInfo, error) {
	i, ok := f.infos[id]
	if !ok {
		return nil, domain.NotFound("Hardware Info")
	}
	cp := *i
	return &cp, nil
}

func (f *fakeCatalogRepo) CreateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error {
	info.ID = "info-" + info.Model
	f.infos[info.ID] = info
	return nil
}

func (f *fakeCatalogRepo) UpdateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error {
	if _, ok := f.infos[info.ID]; !ok {
		return domain.NotFound("Hardware Info")
	}
	f.infos[info.ID] = info
	return nil
}

func (f *fakeCatalogRepo) DeleteHardwareInfo(ctx context.Context, id string) error {
	if _, ok := f.infos[id]; !ok {
		return domain.NotFound("Hardware Info")
	}
	delete(f.infos, id)
	return nil
}

func (f *fakeCatalogRepo) ModelTaken(ctx context.Context, manufacturer, model, excludeID string) (bool, error) {
	for id, i := range f.infos {
		if i.Manufacturer == manufacturer && i.Model == model && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalogRepo) CountHardwareByInfo(ctx context.Context, infoID string) (int, error) {
	return f.hardwareByInfo[infoID], nil
}

func newCatalogService(repo repository.CatalogRepository) *CatalogService {
	return NewCatalogService(repo, zap.NewNop())
}

func TestCreateHardwareType_Validation(t *testing.T) {
	svc := newCatalogService(newFakeCatalogRepo())

	_, err := svc.CreateHardwareType(context.Background(), CreateHardwareTypeInput{Name: "   "})
	assert.True(t, domain.IsValidation(err))
}

func TestCreateHardwareType_DuplicateName(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newCatalogService(repo)

	_, err := svc.CreateHardwareType(context.Background(), CreateHardwareTypeInput{Name: "Server"})
	require.NoError(t, err)

	_, err = svc.CreateHardwareType(context.Background(), CreateHardwareTypeInput{Name: "Server"})
	require.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Hardware Type name already exists")
}

func TestUpdateHardwareType_RenameToSelf(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newCatalogService(repo)

	created, err := svc.CreateHardwareType(context.Background(), CreateHardwareTypeInput{Name: "Server"})
	require.NoError(t, err)

	// Re-submitting the current name must not trip the uniqueness check.
	name := "Server"
	updated, err := svc.UpdateHardwareType(context.Background(), created.ID, UpdateHardwareTypeInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Server", updated.Name)
}

func TestDeleteHardwareType_RestrictedWhileReferenced(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.types["type-1"] = &domain.HardwareType{ID: "type-1", Name: "Server"}
	repo.infosByType["type-1"] = 2
	svc := newCatalogService(repo)

	err := svc.DeleteHardwareType(context.Background(), "type-1")
	require.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Cannot delete. This type is used by 2 hardware model(s).")

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 2, conflict.Dependents)

	_, stillThere := repo.types["type-1"]
	assert.True(t, stillThere)
}

func TestDeleteHardwareType_AllowedOnceUnreferenced(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.types["type-1"] = &domain.HardwareType{ID: "type-1", Name: "Server"}
	svc := newCatalogService(repo)

	require.NoError(t, svc.DeleteHardwareType(context.Background(), "type-1"))
	assert.Empty(t, repo.types)
}

func TestCreateHardwareInfo_RequiresKnownType(t *testing.T) {
	svc := newCatalogService(newFakeCatalogRepo())

	_, err := svc.CreateHardwareInfo(context.Background(), CreateHardwareInfoInput{
		Manufacturer:   "Dell",
		Model:          "R740",
		Height:         2,
		HardwareTypeID: "ghost",
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateHardwareInfo_CompoundKeyConflict(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.types["type-1"] = &domain.HardwareType{ID: "type-1", Name: "Server"}
	svc := newCatalogService(repo)

	in := CreateHardwareInfoInput{Manufacturer: "Dell", Model: "R740", Height: 2, HardwareTypeID: "type-1"}
	_, err := svc.CreateHardwareInfo(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.CreateHardwareInfo(context.Background(), in)
	require.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "This Manufacturer/Model combination already exists")
}

func TestCreateHardwareInfo_HeightMustBePositive(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.types["type-1"] = &domain.HardwareType{ID: "type-1", Name: "Server"}
	svc := newCatalogService(repo)

	_, err := svc.CreateHardwareInfo(context.Background(), CreateHardwareInfoInput{
		Manufacturer:   "Dell",
		Model:          "R740",
		Height:         0,
		HardwareTypeID: "type-1",
	})
	assert.True(t, domain.IsValidation(err))
}

func TestCanDelete(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.types["type-1"] = &domain.HardwareType{ID: "type-1", Name: "Server"}
	repo.infosByType["type-1"] = 2
	repo.infos["info-1"] = &domain.HardwareInfo{ID: "info-1", Manufacturer: "Dell", Model: "R740"}
	svc := newCatalogService(repo)

	allowed, n, err := svc.CanDelete(context.Background(), "hardwareType", "type-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 2, n)

	allowed, n, err = svc.CanDelete(context.Background(), "hardwareInfo", "info-1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, n)

	_, _, err = svc.CanDelete(context.Background(), "hardwareType", "ghost")
	assert.True(t, domain.IsNotFound(err))

	_, _, err = svc.CanDelete(context.Background(), "rack", "rack-1")
	assert.True(t, domain.IsValidation(err))
}

func TestDeleteHardwareInfo_RestrictedWhileReferenced(t *testing.T) {
	repo := newFakeCatalogRepo()
	repo.infos["info-1"] = &domain.HardwareInfo{ID: "info-1", Manufacturer: "Dell", Model: "R740"}
	repo.hardwareByInfo["info-1"] = 3
	svc := newCatalogService(repo)

	err := svc.DeleteHardwareInfo(context.Background(), "info-1")
	require.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Cannot delete. This model is used by 3 hardware(s).")
}
