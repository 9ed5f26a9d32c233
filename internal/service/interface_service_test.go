package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
)

// fakeInterfacesRepo is an in-memory InterfacesRepository.
type fakeInterfacesRepo struct {
	conns map[string]*domain.InterfaceConnection
	next  int
}

func newFakeInterfacesRepo() *fakeInterfacesRepo {
	return &fakeInterfacesRepo{conns: map[string]*domain.InterfaceConnection{}}
}

func (f *fakeInterfacesRepo) ListInterfaces(ctx context.Context, _ repository.InterfaceFilter, _ repository.ListOptions) ([]*domain.InterfaceConnection, int, error) {
	out := []*domain.InterfaceConnection{}
	for _, c := range f.conns {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeInterfacesRepo) GetInterface(ctx context.Context, id string) (*domain.InterfaceConnection, error) {
	c, ok := f.conns[id]
	if !ok {
		return nil, domain.NotFound("Interface connection")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeInterfacesRepo) CreateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	f.next++
	conn.ID = fmt.Sprintf("if-%d", f.next)
	f.conns[conn.ID] = conn
	return nil
}

func (f *fakeInterfacesRepo) UpdateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	if _, ok := f.conns[conn.ID]; !ok {
		return domain.NotFound("Interface connection")
	}
	f.conns[conn.ID] = conn
	return nil
}

func (f *fakeInterfacesRepo) DeleteInterface(ctx context.Context, id string) error {
	if _, ok := f.conns[id]; !ok {
		return domain.NotFound("Interface connection")
	}
	delete(f.conns, id)
	return nil
}

// fakeHardwareRepo embeds the interface and overrides only what the tests
// exercise; calling anything else panics on the nil embed.
type fakeHardwareRepo struct {
	repository.HardwareRepository
	existing map[string]bool
}

func (f *fakeHardwareRepo) HardwareExists(ctx context.Context, id string) (bool, error) {
	return f.existing[id], nil
}

func newInterfaceService(ifaces *fakeInterfacesRepo, hw *fakeHardwareRepo) *InterfaceService {
	return NewInterfaceService(ifaces, hw, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestCreateInterface_RejectsSelfUplink(t *testing.T) {
	svc := newInterfaceService(newFakeInterfacesRepo(), &fakeHardwareRepo{existing: map[string]bool{"hw-1": true}})

	_, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{
		Name:              "eth0",
		HardwareID:        "hw-1",
		ConnectedSwitchID: strPtr("hw-1"),
	})
	require.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "an interface cannot be connected to its own hardware")
}

func TestCreateInterface_MissingEndpoints(t *testing.T) {
	hw := &fakeHardwareRepo{existing: map[string]bool{"hw-1": true}}
	svc := newInterfaceService(newFakeInterfacesRepo(), hw)

	t.Run("owner", func(t *testing.T) {
		_, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{Name: "eth0", HardwareID: "ghost"})
		require.True(t, domain.IsNotFound(err))
		assert.EqualError(t, err, "Hardware not found")
	})

	t.Run("uplink", func(t *testing.T) {
		_, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{
			Name:              "eth0",
			HardwareID:        "hw-1",
			ConnectedSwitchID: strPtr("ghost"),
		})
		require.True(t, domain.IsNotFound(err))
		assert.EqualError(t, err, "Connected switch not found")
	})
}

func TestCreateInterface_EmptyUplinkMeansNone(t *testing.T) {
	repo := newFakeInterfacesRepo()
	hw := &fakeHardwareRepo{existing: map[string]bool{"hw-1": true}}
	svc := newInterfaceService(repo, hw)

	conn, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{
		Name:              "eth0",
		HardwareID:        "hw-1",
		ConnectedSwitchID: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, conn.ConnectedSwitchID)
}

func TestUpdateInterface_SelfUplinkAfterOwnerChange(t *testing.T) {
	repo := newFakeInterfacesRepo()
	hw := &fakeHardwareRepo{existing: map[string]bool{"hw-1": true, "sw-1": true}}
	svc := newInterfaceService(repo, hw)

	conn, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{
		Name:              "eth0",
		HardwareID:        "hw-1",
		ConnectedSwitchID: strPtr("sw-1"),
	})
	require.NoError(t, err)

	// Moving the interface onto the switch it uplinks to closes the loop.
	_, err = svc.UpdateInterface(context.Background(), conn.ID, UpdateInterfaceInput{HardwareID: strPtr("sw-1")})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateInterface_ClearUplink(t *testing.T) {
	repo := newFakeInterfacesRepo()
	hw := &fakeHardwareRepo{existing: map[string]bool{"hw-1": true, "sw-1": true}}
	svc := newInterfaceService(repo, hw)

	conn, err := svc.CreateInterface(context.Background(), CreateInterfaceInput{
		Name:              "eth0",
		HardwareID:        "hw-1",
		ConnectedSwitchID: strPtr("sw-1"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateInterface(context.Background(), conn.ID, UpdateInterfaceInput{ConnectedSwitchID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ConnectedSwitchID)
}
