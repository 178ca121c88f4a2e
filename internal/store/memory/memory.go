package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taaza/backend/internal/domain"
	"taaza/backend/internal/store"
	"taaza/backend/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	counters        map[string]int64
	ordersByID      map[string]domain.Order
	productsByID    map[string]domain.Product
	categoriesByID  map[string]domain.Category
	quickItemsByID  map[string]domain.QuickItem
	employeesByID   map[string]domain.Employee
	dailyStockByDay map[string]domain.DailyStock
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD;
// unset variables fall back to dev defaults with a warning. Production
// deployments use PostgreSQL (DATABASE_URL) and never hit this path.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"cashier", cashierPwd, "cashier"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	categories := []domain.Category{
		{ID: xid.New("cat"), Key: "chicken", Name: "Chicken", PricePerKgPaise: 26000, WholeQuantity: 60, QuantityLeft: 60},
		{ID: xid.New("cat"), Key: "mutton", Name: "Mutton", PricePerKgPaise: 92000, WholeQuantity: 12, QuantityLeft: 12},
		{ID: xid.New("cat"), Key: "eggs", Name: "Eggs", PricePerKgPaise: 0, WholeQuantity: 40, QuantityLeft: 40},
	}

	products := []domain.Product{
		{ID: xid.New("prod"), Name: "Chicken Curry Cut", Category: "chicken", PricePerKgPaise: 26000, Active: true},
		{ID: xid.New("prod"), Name: "Chicken Boneless", Category: "chicken", PricePerKgPaise: 34000, Active: true},
		{ID: xid.New("prod"), Name: "Chicken Liver", Category: "chicken", PricePerKgPaise: 18000, Active: true},
		{ID: xid.New("prod"), Name: "Chicken Lollipop", Category: "chicken", PricePerKgPaise: 30000, Active: true},
		{ID: xid.New("prod"), Name: "Mutton Curry Cut", Category: "mutton", PricePerKgPaise: 92000, Active: true},
		{ID: xid.New("prod"), Name: "Mutton Boneless", Category: "mutton", PricePerKgPaise: 104000, Active: true},
		{ID: xid.New("prod"), Name: "Mutton Liver", Category: "mutton", PricePerKgPaise: 96000, Active: true},
		{ID: xid.New("prod"), Name: "Egg Tray 30", Category: "eggs", PricePerKgPaise: 18000, Active: true},
		{ID: xid.New("prod"), Name: "Country Eggs 12", Category: "eggs", PricePerKgPaise: 14400, Active: true},
	}

	quickItems := []domain.QuickItem{
		{ID: xid.New("qk"), Name: "Chicken Curry Cut", Category: "chicken", PricePerKgPaise: 26000, CreatedAt: now},
		{ID: xid.New("qk"), Name: "Egg Tray 30", Category: "eggs", PricePerKgPaise: 18000, CreatedAt: now},
		{ID: xid.New("qk"), Name: "Mutton Curry Cut", Category: "mutton", PricePerKgPaise: 92000, CreatedAt: now},
	}

	s := &Store{
		counters:        make(map[string]int64),
		ordersByID:      make(map[string]domain.Order),
		productsByID:    make(map[string]domain.Product, len(products)),
		categoriesByID:  make(map[string]domain.Category, len(categories)),
		quickItemsByID:  make(map[string]domain.QuickItem, len(quickItems)),
		employeesByID:   make(map[string]domain.Employee),
		dailyStockByDay: make(map[string]domain.DailyStock),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: seedUsers(),
	}
	for _, c := range categories {
		c.CreatedAt = now
		c.UpdatedAt = now
		s.categoriesByID[c.ID] = c
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		s.productsByID[p.ID] = p
	}
	for _, q := range quickItems {
		s.quickItemsByID[q.ID] = q
	}
	return s
}

// New returns an empty store without seed data, for tests that want a
// clean slate.
func New() *Store {
	s := NewSeeded()
	s.mu.Lock()
	s.ordersByID = make(map[string]domain.Order)
	s.mu.Unlock()
	return s
}

func (s *Store) NextOrderSequence(_ context.Context, channel string) (int64, error) {
	if channel != domain.ChannelAdmin && channel != domain.ChannelCustomer {
		return 0, store.ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[channel]++
	return s.counters[channel], nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" || order.OrderID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidRecord
	}
	if _, exists := s.ordersByID[order.ID]; exists {
		return nil, store.ErrInvalidRecord
	}

	order.Items = slices.Clone(order.Items)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt
	s.ordersByID[order.ID] = order

	created := order
	created.Items = slices.Clone(order.Items)
	return &created, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.ordersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyOrder := order
	copyOrder.Items = slices.Clone(order.Items)
	return &copyOrder, nil
}

func (s *Store) ListOrders(_ context.Context, from, to time.Time, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.ordersByID))
	for _, order := range s.ordersByID {
		if !from.IsZero() && order.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !order.CreatedAt.Before(to) {
			continue
		}
		copyOrder := order
		copyOrder.Items = slices.Clone(order.Items)
		orders = append(orders, copyOrder)
	}

	slices.SortFunc(orders, func(a, b domain.Order) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.OrderID, a.OrderID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})

	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.ordersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.ordersByID[id] = order

	copyOrder := order
	copyOrder.Items = slices.Clone(order.Items)
	return &copyOrder, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ordersByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.ordersByID, id)
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.productsByID))
	for _, p := range s.productsByID {
		if !p.Active {
			continue
		}
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.productsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	product.Active = true
	product.CreatedAt = now
	product.UpdatedAt = now
	s.productsByID[product.ID] = product

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}
	existing, exists := s.productsByID[product.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.productsByID[product.ID] = product

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.productsByID, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categoriesByID))
	for _, c := range s.categoriesByID {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b domain.Category) int {
		return cmpString(a.Key, b.Key)
	})
	return categories, nil
}

func (s *Store) GetCategoryByKey(_ context.Context, key string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categoriesByID {
		if c.Key == key {
			copyCategory := c
			return &copyCategory, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.Key == "" || category.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	for _, c := range s.categoriesByID {
		if c.Key == category.Key {
			return nil, store.ErrInvalidRecord
		}
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	if category.QuantityLeft == 0 {
		category.QuantityLeft = category.WholeQuantity
	}
	s.categoriesByID[category.ID] = category

	created := category
	return &created, nil
}

func (s *Store) UpdateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.Key == "" || category.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	existing, exists := s.categoriesByID[category.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now().UTC()
	s.categoriesByID[category.ID] = category

	updated := category
	return &updated, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categoriesByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.categoriesByID, id)
	return nil
}

func (s *Store) DecrementCategoryStock(_ context.Context, key string, qty int) error {
	if qty < 1 {
		return store.ErrInvalidRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.categoriesByID {
		if c.Key != key {
			continue
		}
		c.WholeQuantity = max(0, c.WholeQuantity-qty)
		c.QuantityLeft = max(0, c.QuantityLeft-qty)
		c.UpdatedAt = time.Now().UTC()
		s.categoriesByID[id] = c
		return nil
	}
	return store.ErrNotFound
}

func (s *Store) ListQuickItems(_ context.Context) ([]domain.QuickItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.QuickItem, 0, len(s.quickItemsByID))
	for _, q := range s.quickItemsByID {
		items = append(items, q)
	}
	slices.SortFunc(items, func(a, b domain.QuickItem) int {
		return cmpString(a.Name, b.Name)
	})
	return items, nil
}

func (s *Store) CreateQuickItem(_ context.Context, item domain.QuickItem) (*domain.QuickItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" || item.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}
	if item.ID == "" {
		item.ID = xid.New("qk")
	}
	item.CreatedAt = time.Now().UTC()
	s.quickItemsByID[item.ID] = item

	created := item
	return &created, nil
}

func (s *Store) DeleteQuickItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.quickItemsByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.quickItemsByID, id)
	return nil
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, 0, len(s.employeesByID))
	for _, e := range s.employeesByID {
		employees = append(employees, copyEmployee(e))
	}
	slices.SortFunc(employees, func(a, b domain.Employee) int {
		return cmpString(a.Name, b.Name)
	})
	return employees, nil
}

func (s *Store) GetEmployee(_ context.Context, id string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, exists := s.employeesByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyEmp := copyEmployee(employee)
	return &copyEmp, nil
}

func (s *Store) CreateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if employee.ID == "" {
		employee.ID = xid.New("emp")
	}
	now := time.Now().UTC()
	employee.Active = true
	employee.CreatedAt = now
	employee.UpdatedAt = now
	s.employeesByID[employee.ID] = copyEmployee(employee)

	created := copyEmployee(employee)
	return &created, nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee domain.Employee) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if employee.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	existing, exists := s.employeesByID[employee.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	// Histories are append-only; updates never replace them.
	employee.SalaryHistory = existing.SalaryHistory
	employee.LeaveHistory = existing.LeaveHistory
	employee.AdvanceHistory = existing.AdvanceHistory
	employee.CreatedAt = existing.CreatedAt
	employee.UpdatedAt = time.Now().UTC()
	s.employeesByID[employee.ID] = copyEmployee(employee)

	updated := copyEmployee(employee)
	return &updated, nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.employeesByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.employeesByID, id)
	return nil
}

func (s *Store) AppendSalaryEntry(_ context.Context, employeeID string, entry domain.SalaryEntry) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, exists := s.employeesByID[employeeID]
	if !exists {
		return nil, store.ErrNotFound
	}
	employee.SalaryHistory = append(slices.Clone(employee.SalaryHistory), entry)
	employee.UpdatedAt = time.Now().UTC()
	s.employeesByID[employeeID] = employee

	copyEmp := copyEmployee(employee)
	return &copyEmp, nil
}

func (s *Store) AppendLeaveEntry(_ context.Context, employeeID string, entry domain.LeaveEntry) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, exists := s.employeesByID[employeeID]
	if !exists {
		return nil, store.ErrNotFound
	}
	employee.LeaveHistory = append(slices.Clone(employee.LeaveHistory), entry)
	employee.UpdatedAt = time.Now().UTC()
	s.employeesByID[employeeID] = employee

	copyEmp := copyEmployee(employee)
	return &copyEmp, nil
}

func (s *Store) AppendAdvanceEntry(_ context.Context, employeeID string, entry domain.AdvanceEntry) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, exists := s.employeesByID[employeeID]
	if !exists {
		return nil, store.ErrNotFound
	}
	employee.AdvanceHistory = append(slices.Clone(employee.AdvanceHistory), entry)
	employee.UpdatedAt = time.Now().UTC()
	s.employeesByID[employeeID] = employee

	copyEmp := copyEmployee(employee)
	return &copyEmp, nil
}

func (s *Store) GetDailyStock(_ context.Context, date string) (*domain.DailyStock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stock, exists := s.dailyStockByDay[date]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyStock := stock
	copyStock.Counts = copyCounts(stock.Counts)
	return &copyStock, nil
}

func (s *Store) SetDailyStock(_ context.Context, stock domain.DailyStock) (*domain.DailyStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stock.Date == "" {
		return nil, store.ErrInvalidRecord
	}
	stock.Counts = copyCounts(stock.Counts)
	stock.UpdatedAt = time.Now().UTC()
	s.dailyStockByDay[stock.Date] = stock

	saved := stock
	saved.Counts = copyCounts(stock.Counts)
	return &saved, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, day time.Time) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	logs := make([]domain.AuditLog, 0, 16)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(dayStart) || !entry.CreatedAt.Before(dayEnd) {
			continue
		}
		logs = append(logs, entry)
	}
	slices.SortFunc(logs, func(a, b domain.AuditLog) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return 1
		}
		return 0
	})
	return logs, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || user.Password == "" {
		return store.ErrInvalidRecord
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidRecord
	}
	user.Username = username
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func copyEmployee(e domain.Employee) domain.Employee {
	e.SalaryHistory = slices.Clone(e.SalaryHistory)
	e.LeaveHistory = slices.Clone(e.LeaveHistory)
	e.AdvanceHistory = slices.Clone(e.AdvanceHistory)
	return e
}

func copyCounts(counts map[string]int) map[string]int {
	if counts == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
