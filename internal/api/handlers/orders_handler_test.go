package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/services"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/store"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fileStore := store.NewFileStore(config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "orders.json"),
	})

	dataset := models.Dataset{Orders: []models.Order{
		{
			OrderNumber: "O-1",
			OrderStatus: models.StatusInProgress,
			Items: []models.Item{
				{ItemID: "I-1", Bottles: []models.Bottle{
					{DecoCode: "D-1", Name: "amber-500ml", Quantity: 100, CompletedQty: 40, AvailableStock: 500, Status: models.StatusInProgress},
				}},
			},
		},
	}}
	require.NoError(t, fileStore.Save(dataset))

	tracer, err := tracing.NewTracer(config.TracingConfig{})
	require.NoError(t, err)

	svc := services.NewProgressService(fileStore, nil, nil, metrics.NewMetrics(), tracer)

	router := gin.New()
	NewOrdersHandler(svc, tracer).RegisterRoutes(router)
	return router, fileStore
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleListOrders(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Orders  []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Orders, 1)
	require.Equal(t, "O-1", resp.Orders[0].OrderNumber)
}

func TestHandleApplyProgressSuccess(t *testing.T) {
	router, fileStore := newTestRouter(t)

	body := `{"updates":[{"deco_code":"D-1","units_produced":10,"stock_used":5,"total_completed":55,"note":"shift"}],"updated_by":"line-3"}`
	w := doRequest(router, http.MethodPost, "/api/orders/O-1/items/I-1/progress", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool                   `json:"success"`
		Order     models.Order           `json:"order"`
		Updates   []models.UpdateSummary `json:"updates"`
		Timestamp string                 `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Updates, 1)
	require.Equal(t, 55, resp.Updates[0].NewCompleted)
	require.NotEmpty(t, resp.Timestamp)

	dataset, state := fileStore.Load()
	require.Equal(t, store.LoadOK, state)
	require.Equal(t, 55, dataset.FindOrder("O-1").FindItem("I-1").FindBottle("D-1").CompletedQty)
}

func TestHandleApplyProgressCoercesGarbageNumbers(t *testing.T) {
	router, fileStore := newTestRouter(t)

	// Non-numeric fields coerce to zero instead of failing the request;
	// total_completed "abc" becomes 0 and the bottle resets to Pending.
	body := `{"updates":[{"deco_code":"D-1","units_produced":"abc","stock_used":null,"total_completed":"abc"}]}`
	w := doRequest(router, http.MethodPost, "/api/orders/O-1/items/I-1/progress", body)
	require.Equal(t, http.StatusOK, w.Code)

	dataset, _ := fileStore.Load()
	b := dataset.FindOrder("O-1").FindItem("I-1").FindBottle("D-1")
	require.Equal(t, 0, b.CompletedQty)
	require.Equal(t, models.StatusPending, b.Status)
}

func TestHandleApplyProgressErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "malformed body",
			path:       "/api/orders/O-1/items/I-1/progress",
			body:       `{"updates": "nope"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty updates",
			path:       "/api/orders/O-1/items/I-1/progress",
			body:       `{"updates":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown order",
			path:       "/api/orders/O-404/items/I-1/progress",
			body:       `{"updates":[{"deco_code":"D-1","total_completed":41}]}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown item",
			path:       "/api/orders/O-1/items/I-404/progress",
			body:       `{"updates":[{"deco_code":"D-1","total_completed":41}]}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown deco code",
			path:       "/api/orders/O-1/items/I-1/progress",
			body:       `{"updates":[{"deco_code":"D-404","total_completed":1}]}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "quantity exceeded",
			path:       "/api/orders/O-1/items/I-1/progress",
			body:       `{"updates":[{"deco_code":"D-1","total_completed":150}]}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			w := doRequest(router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.NotEmpty(t, resp.Message)
		})
	}
}
