package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shopcart/internal/models"

	"github.com/google/uuid"
)

// memoryStore backs the in-memory repositories. Products and cart items share
// one lock so that deleting a product can drop its cart items atomically.
type memoryStore struct {
	mu        sync.RWMutex
	products  map[string]models.Product
	cartItems map[string]models.CartItem
	users     map[string]models.User
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	store *memoryStore
}

// MemoryCartRepository is an in-memory implementation of CartRepository.
type MemoryCartRepository struct {
	store *memoryStore
}

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	store *memoryStore
}

// NewMemoryRepositories creates product, cart and user repositories sharing one store.
func NewMemoryRepositories() (*MemoryProductRepository, *MemoryCartRepository, *MemoryUserRepository) {
	s := &memoryStore{
		products:  make(map[string]models.Product),
		cartItems: make(map[string]models.CartItem),
		users:     make(map[string]models.User),
	}
	return &MemoryProductRepository{store: s}, &MemoryCartRepository{store: s}, &MemoryUserRepository{store: s}
}

// GetAll returns the products matching filter, ordered by name.
func (r *MemoryProductRepository) GetAll(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category := strings.ToLower(filter.Category)
	productList := make([]models.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		if category != "" && !strings.Contains(strings.ToLower(p.Category), category) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		productList = append(productList, p)
	}
	sort.SliceStable(productList, func(i, j int) bool {
		if productList[i].Name == productList[j].Name {
			return productList[i].ID < productList[j].ID
		}
		return productList[i].Name < productList[j].Name
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.store.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.store.products[product.ID] = *product
	return nil
}

// Delete removes a product and the cart items referencing it.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	for itemID, item := range r.store.cartItems {
		if item.ProductID == id {
			delete(r.store.cartItems, itemID)
		}
	}
	delete(r.store.products, id)
	return nil
}

// hydrate attaches the current product to item. Callers hold the lock.
func (r *MemoryCartRepository) hydrate(item models.CartItem) models.CartItem {
	item.Product = r.store.products[item.ProductID]
	return item
}

// GetAll returns every cart item in insertion order.
func (r *MemoryCartRepository) GetAll(_ context.Context) ([]models.CartItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := make([]models.CartItem, 0, len(r.store.cartItems))
	for _, item := range r.store.cartItems {
		items = append(items, r.hydrate(item))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// GetByID returns a cart item by its ID.
func (r *MemoryCartRepository) GetByID(_ context.Context, id string) (*models.CartItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.cartItems[id]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	item = r.hydrate(item)
	return &item, nil
}

// GetByProductID returns the cart item holding productID.
func (r *MemoryCartRepository) GetByProductID(_ context.Context, productID string) (*models.CartItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.cartItems {
		if item.ProductID == productID {
			item = r.hydrate(item)
			return &item, nil
		}
	}
	return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// Create adds a new cart item. The referenced product must exist.
func (r *MemoryCartRepository) Create(_ context.Context, item *models.CartItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[item.ProductID]; !ok {
		return fmt.Errorf("product with ID %s: %w", item.ProductID, ErrNotFound)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	stored := *item
	stored.Product = models.Product{}
	r.store.cartItems[item.ID] = stored
	return nil
}

// UpdateQuantity sets the quantity of an existing cart item.
func (r *MemoryCartRepository) UpdateQuantity(_ context.Context, id string, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.cartItems[id]
	if !ok {
		return fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	r.store.cartItems[id] = item
	return nil
}

// IncrementQuantity adds delta to the quantity if the result is within limit.
func (r *MemoryCartRepository) IncrementQuantity(_ context.Context, id string, delta, limit int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.cartItems[id]
	if !ok || item.Quantity+delta > limit {
		return false, nil
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now()
	r.store.cartItems[id] = item
	return true, nil
}

// Delete removes a cart item by its ID.
func (r *MemoryCartRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.cartItems[id]; !ok {
		return fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	delete(r.store.cartItems, id)
	return nil
}

// Create adds a new user, rejecting duplicate usernames and emails.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("failed to create user: duplicate username or email")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username", username)
}

// GetByEmail returns a user by email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email", email)
}

// GetByID returns a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id }, "id", id)
}

func (r *MemoryUserRepository) find(match func(models.User) bool, column, value string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with %s %s: %w", column, value, ErrNotFound)
}
