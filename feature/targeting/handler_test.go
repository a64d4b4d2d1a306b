package targeting_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"admanager-sync/core/gam"
	"admanager-sync/core/gam/mocks"
	"admanager-sync/feature/targeting"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, targetingMock *mocks.TargetingService) *fiber.App {
	t.Helper()

	app := fiber.New()
	feature := targeting.NewFeature(targetingMock, nil, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestHandleCreateKey(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("CreateKey", mock.Anything, "geo").
		Return(&gam.Key{ID: 7, Name: "geo", Type: gam.KeyTypeFreeform}, nil)

	app := setupApp(t, mockT)
	status, body := postJSON(t, app, "/targeting/keys", map[string]any{"name": "geo"})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "geo", body["name"])
	mockT.AssertExpectations(t)
}

func TestHandleCreateKey_MissingName(t *testing.T) {
	mockT := new(mocks.TargetingService)
	app := setupApp(t, mockT)

	status, body := postJSON(t, app, "/targeting/keys", map[string]any{})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "name")
	mockT.AssertNotCalled(t, "CreateKey")
}

func TestHandleListValues(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("GetKeyByName", mock.Anything, "geo").
		Return(&gam.Key{ID: 7, Name: "geo"}, nil)
	mockT.On("ListValues", mock.Anything, mock.Anything).
		Return(&gam.ValuePage{
			Values: []gam.Value{
				{ID: 1, Name: "US", KeyID: 7},
				{ID: 2, Name: "CA", KeyID: 7},
			},
			TotalResultSetSize: 2,
		}, nil)

	app := setupApp(t, mockT)
	req := httptest.NewRequest(fiber.MethodGet, "/targeting/keys/geo/values", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Key    string   `json:"key"`
		Values []string `json:"values"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "geo", body.Key)
	assert.Equal(t, []string{"US", "CA"}, body.Values)
}

func TestHandleListValues_UnknownKey(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("GetKeyByName", mock.Anything, "missing").
		Return(nil, gam.ErrNotFound)

	app := setupApp(t, mockT)
	req := httptest.NewRequest(fiber.MethodGet, "/targeting/keys/missing/values", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleUploadValues(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("GetKeyByName", mock.Anything, "geo").
		Return(&gam.Key{ID: 7, Name: "geo"}, nil)
	mockT.On("ListValues", mock.Anything, mock.Anything).
		Return(&gam.ValuePage{
			Values:             []gam.Value{{ID: 1, Name: "US", KeyID: 7}},
			TotalResultSetSize: 1,
		}, nil)
	mockT.On("CreateValues", mock.Anything, mock.Anything).
		Return([]gam.Value{{ID: 2, Name: "CA", KeyID: 7}, {ID: 3, Name: "90210", KeyID: 7}}, nil)

	app := setupApp(t, mockT)
	status, body := postJSON(t, app, "/targeting/keys/geo/values", map[string]any{
		// Numeric postal codes arrive as JSON numbers and are normalised
		// to their string form before reconciliation.
		"values": []any{"US", "CA", 90210},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["planned"])
	assert.Equal(t, float64(2), body["uploaded"])
	mockT.AssertExpectations(t)
}

func TestHandleUploadValues_UnknownKeyWithoutCreate(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("GetKeyByName", mock.Anything, "missing").
		Return(nil, gam.ErrNotFound)

	app := setupApp(t, mockT)
	status, _ := postJSON(t, app, "/targeting/keys/missing/values", map[string]any{
		"values": []any{"US"},
	})

	assert.Equal(t, fiber.StatusNotFound, status)
	mockT.AssertNotCalled(t, "CreateKey")
	mockT.AssertNotCalled(t, "CreateValues")
}

func TestHandleDeactivateValues(t *testing.T) {
	mockT := new(mocks.TargetingService)
	mockT.On("GetKeyByName", mock.Anything, "geo").
		Return(&gam.Key{ID: 7, Name: "geo"}, nil)
	mockT.On("ListValues", mock.Anything, mock.Anything).
		Return(&gam.ValuePage{
			Values:             []gam.Value{{ID: 1, Name: "US", KeyID: 7}},
			TotalResultSetSize: 1,
		}, nil)
	mockT.On("DeactivateValues", mock.Anything, mock.Anything).
		Return(1, nil)

	app := setupApp(t, mockT)
	status, body := postJSON(t, app, "/targeting/keys/geo/values/deactivate", map[string]any{
		"values": []any{"US", "XX"},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["deactivated"])
	assert.Equal(t, []any{"XX"}, body["not_found"])
	mockT.AssertExpectations(t)
}
