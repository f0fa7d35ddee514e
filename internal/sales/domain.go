package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a sales transaction ("venta") in the system.
type Sale struct {
	ID              uint64          `gorm:"column:id_venta;primaryKey;autoIncrement"`
	CustomerID      uint64          `gorm:"column:id_cliente;not null;index"`
	SellerID        uint64          `gorm:"column:id_vendedor;not null"`
	Date            time.Time       `gorm:"column:fecha_venta;type:date;not null"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethodID uint64          `gorm:"column:id_metodopago;not null"`
}

// TableName keeps the table name of the original schema.
func (Sale) TableName() string {
	return "ventas"
}

// Stats summarises a set of sales.
type Stats struct {
	Count   int64
	Total   decimal.Decimal
	Average decimal.Decimal
}

// NewStats computes count, sum and mean of the given sales. Average is zero
// for an empty set.
func NewStats(sales []*Sale) Stats {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}

	stats := Stats{
		Count:   int64(len(sales)),
		Total:   total,
		Average: decimal.Zero,
	}
	if stats.Count > 0 {
		stats.Average = total.Div(decimal.NewFromInt(stats.Count))
	}
	return stats
}
