package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// memInterfacesRepo is a map-backed InterfacesRepository for handler tests.
type memInterfacesRepo struct {
	conns map[string]*domain.InterfaceConnection
	next  int
}

func (m *memInterfacesRepo) ListInterfaces(ctx context.Context, _ repository.InterfaceFilter, _ repository.ListOptions) ([]*domain.InterfaceConnection, int, error) {
	out := []*domain.InterfaceConnection{}
	for _, c := range m.conns {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memInterfacesRepo) GetInterface(ctx context.Context, id string) (*domain.InterfaceConnection, error) {
	c, ok := m.conns[id]
	if !ok {
		return nil, domain.NotFound("Interface connection")
	}
	return c, nil
}

func (m *memInterfacesRepo) CreateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	for _, c := range m.conns {
		if c.HardwareID == conn.HardwareID && c.Name == conn.Name {
			return domain.Conflict("Interface connection already exists")
		}
	}
	m.next++
	conn.ID = fmt.Sprintf("if-%d", m.next)
	m.conns[conn.ID] = conn
	return nil
}

func (m *memInterfacesRepo) UpdateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	if _, ok := m.conns[conn.ID]; !ok {
		return domain.NotFound("Interface connection")
	}
	m.conns[conn.ID] = conn
	return nil
}

func (m *memInterfacesRepo) DeleteInterface(ctx context.Context, id string) error {
	if _, ok := m.conns[id]; !ok {
		return domain.NotFound("Interface connection")
	}
	delete(m.conns, id)
	return nil
}

// memHardwareLookup answers existence checks; everything else panics on the
// nil embed.
type memHardwareLookup struct {
	repository.HardwareRepository
	existing map[string]bool
}

func (m *memHardwareLookup) HardwareExists(ctx context.Context, id string) (bool, error) {
	return m.existing[id], nil
}

func newInterfacesTestHandler() *InterfacesHandler {
	repo := &memInterfacesRepo{conns: map[string]*domain.InterfaceConnection{}}
	hw := &memHardwareLookup{existing: map[string]bool{"hw-1": true, "sw-1": true}}
	svc := service.NewInterfaceService(repo, hw, zap.NewNop())
	return NewInterfacesHandler(svc, zap.NewNop())
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Result[json.RawMessage]) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res Result[json.RawMessage]
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}
	return rec, res
}

func TestInterfacesHandler_StatusCodes(t *testing.T) {
	h := newInterfacesTestHandler()
	base := "/admin/api/v1/interfaces"

	t.Run("create returns 201", func(t *testing.T) {
		rec, res := doRequest(t, h, http.MethodPost, base,
			`{"name":"eth0","hardwareId":"hw-1","connectedSwitchId":"sw-1"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, ResultSuccess, res.Code)
	})

	t.Run("duplicate returns 409", func(t *testing.T) {
		rec, res := doRequest(t, h, http.MethodPost, base,
			`{"name":"eth0","hardwareId":"hw-1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, ResultError, res.Code)
		assert.Equal(t, "Interface connection already exists", res.Message)
	})

	t.Run("self uplink returns 400", func(t *testing.T) {
		rec, res := doRequest(t, h, http.MethodPost, base,
			`{"name":"eth1","hardwareId":"hw-1","connectedSwitchId":"hw-1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "an interface cannot be connected to its own hardware", res.Message)
	})

	t.Run("unknown owner returns 404", func(t *testing.T) {
		rec, res := doRequest(t, h, http.MethodPost, base,
			`{"name":"eth0","hardwareId":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Hardware not found", res.Message)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		rec, _ := doRequest(t, h, http.MethodPost, base, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get missing returns 404", func(t *testing.T) {
		rec, _ := doRequest(t, h, http.MethodGet, base+"/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list returns 200 with envelope", func(t *testing.T) {
		rec, res := doRequest(t, h, http.MethodGet, base, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ResultSuccess, res.Code)
	})

	t.Run("nested path returns 404", func(t *testing.T) {
		rec, _ := doRequest(t, h, http.MethodPatch, base+"/if-1/extra", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unsupported method returns 405", func(t *testing.T) {
		rec, _ := doRequest(t, h, http.MethodPost, base+"/if-1", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
