package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_ventas/internal/detalles"
	"api_ventas/internal/sales"
)

// DetallesClient is the best-effort client of the detalle-ventas service.
// Implementations never fail: they answer with empty values instead.
type DetallesClient interface {
	LineItemsForSale(ctx context.Context, saleID uint64) []detalles.LineItem
	ProductStatistics(ctx context.Context) map[string]any
	TopSellingProducts(ctx context.Context) []map[string]any
	Available(ctx context.Context) bool
}

// ventasHandler holds the sales service and the detalle-ventas client and
// implements the HTTP handlers of /ventas.
type ventasHandler struct {
	salesService *sales.Service
	detalles     DetallesClient
	gatewayURL   string
	logger       *zap.Logger
}

// newVentasHandler creates a new sales handler.
func newVentasHandler(salesService *sales.Service, detallesClient DetallesClient, gatewayURL string, logger *zap.Logger) *ventasHandler {
	return &ventasHandler{
		salesService: salesService,
		detalles:     detallesClient,
		gatewayURL:   gatewayURL,
		logger:       logger,
	}
}

func (h *ventasHandler) links(ctx *gin.Context, kind resourceKind, id uint64) Links {
	return buildLinks(requestBaseURL(ctx.Request), h.gatewayURL, kind, id)
}

// remoteContext keeps request values (trace context) but not cancellation:
// a started remote call runs to completion or timeout.
func remoteContext(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}

func (h *ventasHandler) internalError(ctx *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("path", ctx.Request.URL.Path))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func parseIDParam(ctx *gin.Context, name string) (uint64, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": name + " inválido: " + raw})
		return 0, false
	}
	return id, true
}

func (h *ventasHandler) collection(ctx *gin.Context, list []*sales.Sale, links Links) SaleCollection {
	var out SaleCollection
	out.Embedded.Ventas = make([]SaleDTO, 0, len(list))
	for _, s := range list {
		dto := newSaleDTO(s)
		dto.Links = h.links(ctx, saleItem, s.ID)
		out.Embedded.Ventas = append(out.Embedded.Ventas, dto)
	}
	out.Links = links
	return out
}

// handleListSales handles GET /ventas.
func (h *ventasHandler) handleListSales(ctx *gin.Context) {
	list, err := h.salesService.List()
	if err != nil {
		h.internalError(ctx, "failed to list sales", err)
		return
	}
	if len(list) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, h.collection(ctx, list, h.links(ctx, saleCollection, 0)))
}

// handleGetSale handles GET /ventas/:id.
func (h *ventasHandler) handleGetSale(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sale, err := h.salesService.GetByID(id)
	if errors.Is(err, sales.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
		return
	}
	if err != nil {
		h.internalError(ctx, "failed to get sale", err)
		return
	}

	dto := newSaleDTO(sale)
	dto.Links = h.links(ctx, saleDetail, sale.ID)
	ctx.JSON(http.StatusOK, dto)
}

// handleCreateSale handles POST /ventas.
func (h *ventasHandler) handleCreateSale(ctx *gin.Context) {
	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}
	if req.Total.IsNegative() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "total: no puede ser negativo"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "fechaVenta: debe tener el formato AAAA-MM-DD"})
		return
	}

	sale, err := h.salesService.Save(&sales.Sale{
		CustomerID:      req.CustomerID,
		SellerID:        req.SellerID,
		Date:            date,
		Total:           *req.Total,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		h.internalError(ctx, "failed to create sale", err)
		return
	}

	dto := newSaleDTO(sale)
	dto.Links = h.links(ctx, saleDetail, sale.ID)
	ctx.JSON(http.StatusCreated, dto)
}

// handleDeleteSale handles DELETE /ventas/:id.
func (h *ventasHandler) handleDeleteSale(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := h.salesService.Delete(id)
	if errors.Is(err, sales.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
		return
	}
	if err != nil {
		h.internalError(ctx, "failed to delete sale", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Venta eliminada exitosamente"})
}

// handleSalesStats handles GET /ventas/stats.
func (h *ventasHandler) handleSalesStats(ctx *gin.Context) {
	stats, err := h.salesService.Stats()
	if err != nil {
		h.internalError(ctx, "failed to compute sales stats", err)
		return
	}

	ctx.JSON(http.StatusOK, StatsResponse{
		StatsDTO: newStatsDTO(stats),
		Links:    h.links(ctx, saleStats, 0),
	})
}

// handleSalesByCustomer handles GET /ventas/cliente/:idCliente.
func (h *ventasHandler) handleSalesByCustomer(ctx *gin.Context) {
	customerID, ok := parseIDParam(ctx, "idCliente")
	if !ok {
		return
	}

	list, err := h.salesService.ListByCustomer(customerID)
	if err != nil {
		h.internalError(ctx, "failed to list customer sales", err)
		return
	}
	if len(list) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, h.collection(ctx, list, h.links(ctx, customerCollection, customerID)))
}

// handleSaleWithDetails handles GET /ventas/:id/con-detalles. The line items
// degrade to an empty list when detalle-ventas is unavailable.
func (h *ventasHandler) handleSaleWithDetails(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sale, err := h.salesService.GetByID(id)
	if errors.Is(err, sales.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Venta no encontrada"})
		return
	}
	if err != nil {
		h.internalError(ctx, "failed to get sale", err)
		return
	}

	items := h.detalles.LineItemsForSale(remoteContext(ctx), id)
	ctx.JSON(http.StatusOK, SaleWithDetailsResponse{
		Venta:         newSaleDTO(sale),
		Detalles:      items,
		TotalDetalles: len(items),
		Links:         h.links(ctx, saleWithDetails, id),
	})
}

// handleCompleteStats handles GET /ventas/stats/completas.
func (h *ventasHandler) handleCompleteStats(ctx *gin.Context) {
	stats, err := h.salesService.Stats()
	if err != nil {
		h.internalError(ctx, "failed to compute sales stats", err)
		return
	}

	remote := remoteContext(ctx)
	ctx.JSON(http.StatusOK, CompleteStatsResponse{
		Ventas:    newStatsDTO(stats),
		Productos: h.detalles.ProductStatistics(remote),
		Microservicios: MicroservicesStatus{
			DetalleVentasAvailable: h.detalles.Available(remote),
		},
		Links: h.links(ctx, completeStats, 0),
	})
}

// handleTopSellingProducts handles GET /ventas/productos/mas-vendidos.
func (h *ventasHandler) handleTopSellingProducts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, TopSellersResponse{
		Productos: h.detalles.TopSellingProducts(remoteContext(ctx)),
		Links:     h.links(ctx, topSellers, 0),
	})
}

// handleHealth reports this service's own health.
func (h *ventasHandler) handleHealth(ctx *gin.Context) {
	if err := h.salesService.Healthy(); err != nil {
		h.logger.Warn("storage health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "UP"})
}
