package inventory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/ingest"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")
)

// Store owns the product collection for the lifetime of the process.
// Readers get copies, so calculations never observe a half-applied write.
type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	validate *validator.Validate
}

// NewStore creates a store holding a copy of the given products. Products
// without an id are assigned one.
func NewStore(seed []domain.Product) *Store {
	s := &Store{validate: validator.New()}
	s.products = s.prepare(seed, nil)
	return s
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len reports the number of products held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.products[i], nil
}

// ReplaceAll swaps the whole collection, as a replacing import does.
func (s *Store) ReplaceAll(products []domain.Product) error {
	prepared, err := s.validateAll(products, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = prepared
	s.mu.Unlock()
	return nil
}

// Append adds a batch of products. Products without an id, or whose id is
// already taken, get a fresh one.
func (s *Store) Append(products []domain.Product) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]struct{}, len(s.products))
	for _, p := range s.products {
		taken[p.ID] = struct{}{}
	}

	prepared, err := s.validateAll(products, taken)
	if err != nil {
		return nil, err
	}

	s.products = append(s.products, prepared...)
	return prepared, nil
}

// Add stores one product, under a fresh id when its own is missing or taken.
func (s *Store) Add(p domain.Product) (domain.Product, error) {
	added, err := s.Append([]domain.Product{p})
	if err != nil {
		return domain.Product{}, err
	}
	return added[0], nil
}

// AddInput converts a manual entry and stores it. A blank name is rejected
// and a blank category becomes "General".
func (s *Store) AddInput(in domain.ProductInput) (domain.Product, error) {
	p, err := FromInput(in)
	if err != nil {
		return domain.Product{}, err
	}
	return s.Add(p)
}

// Replace overwrites every field of the product with the given id. The id
// itself is preserved.
func (s *Store) Replace(id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	if err := s.check(p); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.products[i] = p
	return p, nil
}

// ReplaceInput is Replace for a manual entry payload.
func (s *Store) ReplaceInput(id string, in domain.ProductInput) (domain.Product, error) {
	p, err := FromInput(in)
	if err != nil {
		return domain.Product{}, err
	}
	return s.Replace(id, p)
}

func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// FromInput builds a product from a manual entry, coercing numeric fields
// that fail to parse to 0.
func FromInput(in domain.ProductInput) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	return domain.Product{
		Name:            name,
		Category:        category,
		Supplier:        strings.TrimSpace(in.Supplier),
		Cost:            ingest.ParseNonNegativeNumber(in.Cost, 0),
		RRP:             ingest.ParseNonNegativeNumber(in.RRP, 0),
		Stock:           ingest.ParseNonNegativeInt(in.Stock, 0),
		SalesLastMonth:  ingest.ParseNonNegativeInt(in.SalesLastMonth, 0),
		SalesHistorical: ingest.ParseNonNegativeInt(in.SalesHistorical, 0),
	}, nil
}

func (s *Store) validateAll(products []domain.Product, taken map[string]struct{}) ([]domain.Product, error) {
	prepared := s.prepare(products, taken)
	for _, p := range prepared {
		if err := s.check(p); err != nil {
			return nil, err
		}
	}
	return prepared, nil
}

func (s *Store) check(p domain.Product) error {
	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProduct, err.Error())
	}
	return nil
}

// prepare copies products and makes every id unique against taken and
// against earlier items of the same batch.
func (s *Store) prepare(products []domain.Product, taken map[string]struct{}) []domain.Product {
	seen := make(map[string]struct{}, len(taken)+len(products))
	for id := range taken {
		seen[id] = struct{}{}
	}

	out := make([]domain.Product, len(products))
	copy(out, products)
	for i := range out {
		if _, dup := seen[out[i].ID]; out[i].ID == "" || dup {
			out[i].ID = uuid.NewString()
		}
		seen[out[i].ID] = struct{}{}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
