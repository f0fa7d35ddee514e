package api

import (
	"sync"

	"github.com/shopspring/decimal"

	"api_ventas/internal/detalles"
	"api_ventas/internal/sales"
)

const dateLayout = "2006-01-02"

var numericDecimals sync.Once

// useNumericDecimals makes amounts go out as JSON numbers (42.5, not "42.5").
func useNumericDecimals() {
	numericDecimals.Do(func() {
		decimal.MarshalJSONWithoutQuotes = true
	})
}

// SaleDTO is the external representation of a sale.
type SaleDTO struct {
	ID              uint64          `json:"id_venta"`
	CustomerID      uint64          `json:"id_cliente"`
	SellerID        uint64          `json:"id_vendedor"`
	Date            string          `json:"fechaVenta"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethodID uint64          `json:"id_metodopago"`
	Links           Links           `json:"_links,omitempty"`
}

func newSaleDTO(s *sales.Sale) SaleDTO {
	return SaleDTO{
		ID:              s.ID,
		CustomerID:      s.CustomerID,
		SellerID:        s.SellerID,
		Date:            s.Date.Format(dateLayout),
		Total:           s.Total,
		PaymentMethodID: s.PaymentMethodID,
	}
}

// SaleCollection is a HAL collection of sales.
type SaleCollection struct {
	Embedded struct {
		Ventas []SaleDTO `json:"ventas"`
	} `json:"_embedded"`
	Links Links `json:"_links"`
}

// StatsDTO carries count, sum and mean of the sale totals.
type StatsDTO struct {
	Count   int64           `json:"cantidadVentas"`
	Total   decimal.Decimal `json:"totalVentas"`
	Average decimal.Decimal `json:"promedioVentas"`
}

func newStatsDTO(s sales.Stats) StatsDTO {
	return StatsDTO{Count: s.Count, Total: s.Total, Average: s.Average}
}

type StatsResponse struct {
	StatsDTO
	Links Links `json:"_links"`
}

// SaleWithDetailsResponse combines a sale with its remote line items.
type SaleWithDetailsResponse struct {
	Venta         SaleDTO             `json:"venta"`
	Detalles      []detalles.LineItem `json:"detalles"`
	TotalDetalles int                 `json:"totalDetalles"`
	Links         Links               `json:"_links"`
}

type MicroservicesStatus struct {
	DetalleVentasAvailable bool `json:"detalleVentasDisponible"`
}

// CompleteStatsResponse merges local sale stats with remote product stats.
type CompleteStatsResponse struct {
	Ventas         StatsDTO            `json:"ventas"`
	Productos      map[string]any      `json:"productos"`
	Microservicios MicroservicesStatus `json:"microservicios"`
	Links          Links               `json:"_links"`
}

type TopSellersResponse struct {
	Productos []map[string]any `json:"productos"`
	Links     Links            `json:"_links"`
}

// createSaleRequest is the body of POST /ventas.
type createSaleRequest struct {
	CustomerID      uint64           `json:"id_cliente" binding:"required"`
	SellerID        uint64           `json:"id_vendedor" binding:"required"`
	Date            string           `json:"fechaVenta" binding:"required,datetime=2006-01-02"`
	Total           *decimal.Decimal `json:"total" binding:"required"`
	PaymentMethodID uint64           `json:"id_metodopago" binding:"required"`
}
