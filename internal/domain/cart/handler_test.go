package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingsite/internal/cache"
)

const cartPath = "/api/v1/carts/6f1d7c3e-2b4a-4c59-9d0e-3a1b2c3d4e5f"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewStore(cache.NewMemory(), time.Hour, nil)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) View {
	t.Helper()
	var env struct {
		Data View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Data
}

func TestCartHandlersFlow(t *testing.T) {
	r := setupRouter()

	w := send(r, http.MethodPost, cartPath+"/items", map[string]any{
		"sku": "oil", "name": "Beard oil", "unit_price_cents": 1500, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(3000), decodeView(t, w).TotalCents)

	w = send(r, http.MethodPatch, cartPath+"/items/oil", map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeView(t, w).ItemCount)

	w = send(r, http.MethodGet, cartPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4500), decodeView(t, w).TotalCents)

	w = send(r, http.MethodDelete, cartPath+"/items/oil", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeView(t, w).Items)

	w = send(r, http.MethodDelete, cartPath+"/items/oil", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodDelete, cartPath, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCartHandlersValidate(t *testing.T) {
	r := setupRouter()

	w := send(r, http.MethodGet, "/api/v1/carts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, cartPath+"/items", map[string]any{"sku": "oil", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPatch, cartPath+"/items/oil", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
