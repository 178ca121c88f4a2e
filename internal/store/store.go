// Package store defines the persistence contract shared by the
// postgres and in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"

	"taaza/backend/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSequenceUnavailable is returned when an order sequence number
	// could not be allocated. Callers must treat this as fatal for the
	// submission; a sequence is never fabricated client-side.
	ErrSequenceUnavailable = errors.New("order sequence unavailable")
	// ErrInvalidRecord is returned for records that fail validation.
	ErrInvalidRecord = errors.New("invalid record")
)

// Repository is the full persistence surface. Implementations must be
// safe for concurrent use.
type Repository interface {
	// NextOrderSequence atomically increments the counter for the given
	// channel and returns the new value. A channel seen for the first
	// time yields 1. Values only ever grow; gaps from failed
	// submissions are permanent.
	NextOrderSequence(ctx context.Context, channel string) (int64, error)

	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	// ListOrders returns orders created in [from, to) sorted newest
	// first. Zero time bounds are open; limit <= 0 means no limit.
	ListOrders(ctx context.Context, from, to time.Time, limit int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByKey(ctx context.Context, key string) (*domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	// DecrementCategoryStock subtracts qty from both stock fields of
	// the category with the given key, clamping at zero.
	DecrementCategoryStock(ctx context.Context, key string, qty int) error

	ListQuickItems(ctx context.Context) ([]domain.QuickItem, error)
	CreateQuickItem(ctx context.Context, item domain.QuickItem) (*domain.QuickItem, error)
	DeleteQuickItem(ctx context.Context, id string) error

	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	AppendSalaryEntry(ctx context.Context, employeeID string, entry domain.SalaryEntry) (*domain.Employee, error)
	AppendLeaveEntry(ctx context.Context, employeeID string, entry domain.LeaveEntry) (*domain.Employee, error)
	AppendAdvanceEntry(ctx context.Context, employeeID string, entry domain.AdvanceEntry) (*domain.Employee, error)

	GetDailyStock(ctx context.Context, date string) (*domain.DailyStock, error)
	SetDailyStock(ctx context.Context, stock domain.DailyStock) (*domain.DailyStock, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, day time.Time) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
