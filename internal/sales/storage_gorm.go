package sales

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GormStorage stores sales in a relational table through gorm.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage wraps an open gorm connection.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Migrate creates or updates the ventas table.
func (g *GormStorage) Migrate() error {
	return g.db.AutoMigrate(&Sale{})
}

func (g *GormStorage) Set(sale *Sale) error {
	if err := g.db.Save(sale).Error; err != nil {
		return fmt.Errorf("saving sale: %w", err)
	}
	return nil
}

func (g *GormStorage) Read(id uint64) (*Sale, error) {
	var sale Sale
	err := g.db.First(&sale, "id_venta = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading sale %d: %w", id, err)
	}
	return &sale, nil
}

func (g *GormStorage) GetAll() ([]*Sale, error) {
	var sales []*Sale
	if err := g.db.Order("id_venta").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return sales, nil
}

func (g *GormStorage) GetByCustomer(customerID uint64) ([]*Sale, error) {
	var sales []*Sale
	err := g.db.Where("id_cliente = ?", customerID).Order("id_venta").Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("listing sales of customer %d: %w", customerID, err)
	}
	return sales, nil
}

// Delete issues a single conditional DELETE; no rows affected means the
// sale did not exist.
func (g *GormStorage) Delete(id uint64) error {
	res := g.db.Delete(&Sale{}, "id_venta = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting sale %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
