package sales

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// Storage is the main interface for our sales storage layer.
type Storage interface {
	// Set inserts or updates a sale. A zero ID is replaced by a new one.
	Set(sale *Sale) error
	Read(id uint64) (*Sale, error)
	GetAll() ([]*Sale, error)
	GetByCustomer(customerID uint64) ([]*Sale, error)
	// Delete removes the sale and returns ErrNotFound if it did not exist.
	Delete(id uint64) error
	Ping() error
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu     sync.RWMutex
	m      map[uint64]*Sale
	lastID uint64
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[uint64]*Sale{},
	}
}

func (l *LocalStorage) Set(sale *Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if sale.ID == 0 {
		l.lastID++
		sale.ID = l.lastID
	} else if sale.ID > l.lastID {
		l.lastID = sale.ID
	}

	stored := *sale
	l.m[sale.ID] = &stored
	return nil
}

// Read retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Read(id uint64) (*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

// GetAll retrieves all sales ordered by ID.
func (l *LocalStorage) GetAll() ([]*Sale, error) {
	return l.filter(func(*Sale) bool { return true }), nil
}

func (l *LocalStorage) GetByCustomer(customerID uint64) ([]*Sale, error) {
	return l.filter(func(s *Sale) bool { return s.CustomerID == customerID }), nil
}

func (l *LocalStorage) Delete(id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.m[id]; !ok {
		return ErrNotFound
	}
	delete(l.m, id)
	return nil
}

func (l *LocalStorage) Ping() error {
	return nil
}

func (l *LocalStorage) filter(keep func(*Sale) bool) []*Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sales := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		if keep(s) {
			out := *s
			sales = append(sales, &out)
		}
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })
	return sales
}
