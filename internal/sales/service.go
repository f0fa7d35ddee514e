package sales

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns every sale in storage order.
func (s *Service) List() ([]*Sale, error) {
	sales, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return sales, nil
}

// GetByID returns ErrNotFound when no sale has the given ID.
func (s *Service) GetByID(id uint64) (*Sale, error) {
	sale, err := s.storage.Read(id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to read sale", zap.Uint64("sale_id", id), zap.Error(err))
		}
		return nil, err
	}
	return sale, nil
}

// Save persists a new or existing sale and returns it with its ID set.
func (s *Service) Save(sale *Sale) (*Sale, error) {
	if err := s.storage.Set(sale); err != nil {
		s.logger.Error("failed to save sale", zap.Uint64("sale_id", sale.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale saved", zap.Uint64("sale_id", sale.ID), zap.Any("sale", sale))
	return sale, nil
}

// Delete removes a sale in one conditional step; ErrNotFound means nothing
// was removed.
func (s *Service) Delete(id uint64) error {
	if err := s.storage.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete sale", zap.Uint64("sale_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	s.logger.Info("sale deleted", zap.Uint64("sale_id", id))
	return nil
}

// ListByCustomer returns the sales whose customer ID equals customerID.
func (s *Service) ListByCustomer(customerID uint64) ([]*Sale, error) {
	sales, err := s.storage.GetByCustomer(customerID)
	if err != nil {
		s.logger.Error("failed to list customer sales", zap.Uint64("customer_id", customerID), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve customer sales: %w", err)
	}
	return sales, nil
}

// Stats computes count, total and average over all sales.
func (s *Service) Stats() (Stats, error) {
	sales, err := s.List()
	if err != nil {
		return Stats{}, err
	}

	stats := NewStats(sales)
	s.logger.Debug("sales stats computed",
		zap.Int64("count", stats.Count),
		zap.String("total", stats.Total.String()),
	)
	return stats, nil
}

// Healthy reports whether the storage backend answers.
func (s *Service) Healthy() error {
	return s.storage.Ping()
}
