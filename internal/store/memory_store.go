// Package store holds the in-memory implementations of the repository
// interfaces. They back STORE_BACKEND=memory and the service tests.
package store

import (
	"sync"

	"github.com/mudhasirp/Leather-Ecommerce-API/internal/domain"
	"github.com/mudhasirp/Leather-Ecommerce-API/internal/repository"
)

var (
	_ repository.ProductRepository = (*MemoryStore)(nil)
	_ repository.CartRepository    = (*MemoryStore)(nil)
	_ repository.OrderRepository   = (*MemoryStore)(nil)
	_ repository.EnquiryRepository = (*MemoryStore)(nil)
	_ repository.AddressRepository = (*MemoryStore)(nil)
)

// variantStock is the stock counter of one unit variant. Reservations on
// different variants never contend.
type variantStock struct {
	mu    sync.Mutex
	stock int
	sold  int
}

// MemoryStore implements every repository interface with in-memory storage.
// Each collection has its own lock; stock counters are locked per variant.
type MemoryStore struct {
	catalogMu sync.RWMutex
	products  map[string]*domain.Product // productID -> product without live stock
	slugs     map[string]string          // slug -> productID
	stocks    map[domain.VariantKey]*variantStock

	cartsMu sync.RWMutex
	carts   map[string]*domain.Cart // userID -> cart

	ordersMu sync.RWMutex
	orders   map[string]*domain.Order
	orderSeq []string // insertion order

	enquiriesMu sync.RWMutex
	enquiries   map[string]*domain.Enquiry
	enquirySeq  []string

	addressesMu sync.RWMutex
	addresses   map[string][]*domain.SavedAddress // userID -> addresses
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]*domain.Product),
		slugs:     make(map[string]string),
		stocks:    make(map[domain.VariantKey]*variantStock),
		carts:     make(map[string]*domain.Cart),
		orders:    make(map[string]*domain.Order),
		enquiries: make(map[string]*domain.Enquiry),
		addresses: make(map[string][]*domain.SavedAddress),
	}
}
