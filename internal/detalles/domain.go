package detalles

import "github.com/shopspring/decimal"

// LineItem is one product line of a sale, owned by the detalle-ventas service.
type LineItem struct {
	ID        int             `json:"idDetalle"`
	SaleID    int             `json:"idVenta"`
	ProductID int             `json:"idProducto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precioUnitario"`
}

// halEnvelope is the HAL collection returned by GET /detalles/venta/{id}.
type halEnvelope struct {
	Embedded *struct {
		LineItems []remoteLineItem `json:"detalleVentaList"`
	} `json:"_embedded"`
}

// remoteLineItem accepts the price as a JSON number or a string.
type remoteLineItem struct {
	ID        int              `json:"idDetalle"`
	SaleID    int              `json:"idVenta"`
	ProductID int              `json:"idProducto"`
	Quantity  int              `json:"cantidad"`
	UnitPrice *decimal.Decimal `json:"precioUnitario"`
}

func (r remoteLineItem) toLineItem() LineItem {
	item := LineItem{
		ID:        r.ID,
		SaleID:    r.SaleID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}
	if r.UnitPrice != nil {
		item.UnitPrice = *r.UnitPrice
	}
	return item
}
