package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_ventas/internal/detalles"
	"api_ventas/internal/sales"
)

const testGateway = "http://localhost:8888"

type stubDetalles struct {
	items     []detalles.LineItem
	stats     map[string]any
	top       []map[string]any
	up        bool
	gotSaleID uint64
}

func (s *stubDetalles) LineItemsForSale(_ context.Context, saleID uint64) []detalles.LineItem {
	s.gotSaleID = saleID
	return s.items
}
func (s *stubDetalles) ProductStatistics(context.Context) map[string]any    { return s.stats }
func (s *stubDetalles) TopSellingProducts(context.Context) []map[string]any { return s.top }
func (s *stubDetalles) Available(context.Context) bool                      { return s.up }

func emptyDetalles() *stubDetalles {
	return &stubDetalles{
		items: []detalles.LineItem{},
		stats: map[string]any{},
		top:   []map[string]any{},
	}
}

func newTestRouter(t *testing.T, storage sales.Storage, client DetallesClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := zaptest.NewLogger(t)
	InitRoutes(router, Options{
		Sales:      sales.NewService(storage, logger),
		Detalles:   client,
		GatewayURL: testGateway,
		Logger:     logger,
	})
	return router
}

func perform(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, storage sales.Storage, customerID uint64, total string) *sales.Sale {
	t.Helper()
	s := &sales.Sale{
		CustomerID:      customerID,
		SellerID:        2,
		Total:           decimal.RequireFromString(total),
		PaymentMethodID: 1,
	}
	require.NoError(t, storage.Set(s))
	return s
}

func validSaleBody() map[string]any {
	return map[string]any{
		"id_cliente":    10,
		"id_vendedor":   3,
		"fechaVenta":    "2024-01-15",
		"total":         150.75,
		"id_metodopago": 2,
	}
}

func TestListSales_EmptyStore(t *testing.T) {
	router := newTestRouter(t, sales.NewLocalStorage(), emptyDetalles())

	w := perform(router, http.MethodGet, "/ventas", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestListSales(t *testing.T) {
	storage := sales.NewLocalStorage()
	for i := 0; i < 3; i++ {
		seed(t, storage, uint64(i+1), "10")
	}
	router := newTestRouter(t, storage, emptyDetalles())

	w := perform(router, http.MethodGet, "/ventas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got SaleCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Embedded.Ventas, 3)
	assert.Equal(t, "http://example.com/ventas", got.Links["self"].Href)
	assert.Equal(t, testGateway+"/ventas", got.Links["gateway"].Href)

	for _, v := range got.Embedded.Ventas {
		assert.Equal(t, fmt.Sprintf("http://example.com/ventas/%d", v.ID), v.Links["self"].Href)
		assert.Equal(t, "http://example.com/ventas", v.Links["ventas"].Href)
		assert.Equal(t, fmt.Sprintf("%s/ventas/%d", testGateway, v.ID), v.Links["gateway"].Href)
	}
}

func TestGetSale(t *testing.T) {
	storage := sales.NewLocalStorage()
	sale := seed(t, storage, 5, "42.50")
	router := newTestRouter(t, storage, emptyDetalles())

	w := perform(router, http.MethodGet, fmt.Sprintf("/ventas/%d", sale.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got SaleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, uint64(5), got.CustomerID)
	assert.Equal(t, uint64(2), got.SellerID)
	assert.Equal(t, uint64(1), got.PaymentMethodID)
	assert.True(t, decimal.RequireFromString("42.50").Equal(got.Total))
	assert.Contains(t, got.Links, "delete")
	assert.Contains(t, got.Links, "ventas")
	assert.Equal(t, fmt.Sprintf("%s/ventas/%d", testGateway, sale.ID), got.Links["gateway"].Href)
}

func TestAmountsAreJSONNumbers(t *testing.T) {
	storage := sales.NewLocalStorage()
	sale := seed(t, storage, 5, "42.50")
	seed(t, storage, 6, "7.50")
	router := newTestRouter(t, storage, emptyDetalles())

	w := perform(router, http.MethodGet, fmt.Sprintf("/ventas/%d", sale.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":42.5`)
	assert.NotContains(t, w.Body.String(), `"total":"`)

	w = perform(router, http.MethodGet, "/ventas/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalVentas":50`)
	assert.Contains(t, w.Body.String(), `"promedioVentas":25`)
}

func TestGetSale_NotFoundAndBadID(t *testing.T) {
	router := newTestRouter(t, sales.NewLocalStorage(), emptyDetalles())

	for _, id := range []string{"1", "999", "18446744073709551615"} {
		w := perform(router, http.MethodGet, "/ventas/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "id %s", id)
	}

	w := perform(router, http.MethodGet, "/ventas/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSale(t *testing.T) {
	storage := sales.NewLocalStorage()
	router := newTestRouter(t, storage, emptyDetalles())

	w := perform(router, http.MethodPost, "/ventas", validSaleBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got SaleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotZero(t, got.ID)
	assert.Equal(t, uint64(10), got.CustomerID)
	assert.Equal(t, "2024-01-15", got.Date)
	assert.True(t, decimal.RequireFromString("150.75").Equal(got.Total))
	assert.Equal(t, fmt.Sprintf("http://example.com/ventas/%d", got.ID), got.Links["self"].Href)
	assert.Equal(t, fmt.Sprintf("http://example.com/ventas/%d", got.ID), got.Links["delete"].Href)

	all, err := storage.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, got.ID, all[0].ID)
}

func TestCreateSale_Validation(t *testing.T) {
	without := func(key string) map[string]any {
		b := validSaleBody()
		delete(b, key)
		return b
	}
	with := func(key string, v any) map[string]any {
		b := validSaleBody()
		b[key] = v
		return b
	}

	cases := []struct {
		name string
		body any
		want string
	}{
		{"missing customer", without("id_cliente"), "id_cliente: es obligatorio"},
		{"missing total", without("total"), "total: es obligatorio"},
		{"missing date", without("fechaVenta"), "fechaVenta: es obligatorio"},
		{"bad date", with("fechaVenta", "15/01/2024"), "fechaVenta: debe tener el formato AAAA-MM-DD"},
		{"negative total", with("total", -1), "total: no puede ser negativo"},
		{"wrong type", with("id_cliente", "abc"), "id_cliente: tipo de dato inválido"},
		{"malformed", `{"id_cliente": `, "cuerpo de la solicitud inválido"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := sales.NewLocalStorage()
			router := newTestRouter(t, storage, emptyDetalles())

			w := perform(router, http.MethodPost, "/ventas", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.want, body["error"])

			all, err := storage.GetAll()
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestDeleteSale(t *testing.T) {
	storage := sales.NewLocalStorage()
	sale := seed(t, storage, 1, "10")
	other := seed(t, storage, 1, "20")
	router := newTestRouter(t, storage, emptyDetalles())

	path := fmt.Sprintf("/ventas/%d", sale.ID)
	w := perform(router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Venta eliminada exitosamente")

	w = perform(router, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	all, err := storage.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestSalesStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		router := newTestRouter(t, sales.NewLocalStorage(), emptyDetalles())

		w := perform(router, http.MethodGet, "/ventas/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(0), got.Count)
		assert.True(t, got.Total.IsZero())
		assert.True(t, got.Average.IsZero())
		assert.Equal(t, testGateway+"/ventas/stats", got.Links["gateway"].Href)
	})

	t.Run("two sales", func(t *testing.T) {
		storage := sales.NewLocalStorage()
		seed(t, storage, 1, "10")
		seed(t, storage, 2, "20")
		router := newTestRouter(t, storage, emptyDetalles())

		w := perform(router, http.MethodGet, "/ventas/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(2), got.Count)
		assert.True(t, decimal.NewFromInt(30).Equal(got.Total))
		assert.True(t, decimal.NewFromInt(15).Equal(got.Average))
	})
}

func TestSalesByCustomer(t *testing.T) {
	storage := sales.NewLocalStorage()
	want := map[uint64]bool{}
	for _, c := range []uint64{7, 8, 7, 9, 7} {
		s := seed(t, storage, c, "1")
		if c == 7 {
			want[s.ID] = true
		}
	}
	router := newTestRouter(t, storage, emptyDetalles())

	w := perform(router, http.MethodGet, "/ventas/cliente/7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got SaleCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	gotIDs := map[uint64]bool{}
	for _, v := range got.Embedded.Ventas {
		assert.Equal(t, uint64(7), v.CustomerID)
		gotIDs[v.ID] = true
	}
	assert.Equal(t, want, gotIDs)
	assert.Equal(t, "http://example.com/ventas/cliente/7", got.Links["self"].Href)
	assert.Equal(t, testGateway+"/ventas/cliente/7", got.Links["gateway"].Href)

	w = perform(router, http.MethodGet, "/ventas/cliente/100", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSaleWithDetails(t *testing.T) {
	storage := sales.NewLocalStorage()
	sale := seed(t, storage, 1, "39.98")
	client := emptyDetalles()
	client.items = []detalles.LineItem{
		{ID: 1, SaleID: int(sale.ID), ProductID: 4, Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
	}
	router := newTestRouter(t, storage, client)

	w := perform(router, http.MethodGet, fmt.Sprintf("/ventas/%d/con-detalles", sale.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sale.ID, client.gotSaleID)

	var got SaleWithDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, sale.ID, got.Venta.ID)
	assert.Equal(t, 1, got.TotalDetalles)
	require.Len(t, got.Detalles, 1)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Detalles[0].UnitPrice))
	assert.Equal(t, fmt.Sprintf("http://example.com/ventas/%d", sale.ID), got.Links["venta"].Href)

	w = perform(router, http.MethodGet, "/ventas/999/con-detalles", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteStats(t *testing.T) {
	storage := sales.NewLocalStorage()
	seed(t, storage, 1, "10")
	client := emptyDetalles()
	client.stats = map[string]any{"totalProductos": 3}
	client.up = true
	router := newTestRouter(t, storage, client)

	w := perform(router, http.MethodGet, "/ventas/stats/completas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got CompleteStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.Ventas.Count)
	assert.Equal(t, float64(3), got.Productos["totalProductos"])
	assert.True(t, got.Microservicios.DetalleVentasAvailable)
	assert.Equal(t, "http://example.com/ventas/stats", got.Links["stats-ventas"].Href)
}

func TestTopSellingProducts(t *testing.T) {
	client := emptyDetalles()
	client.top = []map[string]any{{"idProducto": 1}, {"idProducto": 2}}
	router := newTestRouter(t, sales.NewLocalStorage(), client)

	w := perform(router, http.MethodGet, "/ventas/productos/mas-vendidos", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got TopSellersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Productos, 2)
	assert.Equal(t, testGateway+"/ventas/productos/mas-vendidos", got.Links["gateway"].Href)
}

type brokenStorage struct {
	*sales.LocalStorage
}

var errDB = errors.New("database is down")

func (brokenStorage) GetAll() ([]*sales.Sale, error) { return nil, errDB }
func (brokenStorage) Ping() error                    { return errDB }

func TestPersistenceErrors(t *testing.T) {
	router := newTestRouter(t, brokenStorage{sales.NewLocalStorage()}, emptyDetalles())

	w := perform(router, http.MethodGet, "/ventas", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), errDB.Error())

	w = perform(router, http.MethodGet, "/ventas/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = perform(router, http.MethodGet, "/actuator/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAmbientEndpoints(t *testing.T) {
	router := newTestRouter(t, sales.NewLocalStorage(), emptyDetalles())

	w := perform(router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/actuator/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())

	w = perform(router, http.MethodGet, "/v3/api-docs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "API de Ventas - Perfunlandia", doc.Info.Title)
	require.Len(t, doc.Servers, 2)
	assert.Equal(t, testGateway, doc.Servers[1].URL)
	assert.Contains(t, doc.Paths, "/ventas/{id}/con-detalles")
}
