package domain

import "time"

// Order channels. Each channel owns an independent sequence lineage.
const (
	ChannelAdmin    = "admin"
	ChannelCustomer = "customer"
)

// Canonical payment method values. Historical records may carry other
// casings; matching is case-insensitive everywhere.
const (
	PaymentCash   = "Cash"
	PaymentOnline = "Online"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// LineItem is one row of a bill. Amounts are in paise, weight in
// kilograms. TotalPaise is fixed at AmountPaise*Qty when the line is
// added and never recomputed afterwards.
type LineItem struct {
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	Qty             int     `json:"qty"`
	AmountPaise     int64   `json:"amountPaise"`
	WeightKg        float64 `json:"weightKg,omitempty"`
	PricePerKgPaise int64   `json:"pricePerKgPaise,omitempty"`
	TotalPaise      int64   `json:"totalPaise"`
}

// Order is a persisted bill. Everything except Status is immutable
// after creation.
type Order struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	Channel       string     `json:"channel"`
	Items         []LineItem `json:"items"`
	TotalPaise    int64      `json:"totalPaise"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	Customer      string     `json:"customer,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	WithReceipt   bool       `json:"withReceipt"`
	TenderedPaise int64      `json:"tenderedPaise,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// OrderSubmitRequest carries everything about a submission that is not
// the bill itself.
type OrderSubmitRequest struct {
	Channel       string `json:"channel"`
	PaymentMethod string `json:"paymentMethod"`
	Customer      string `json:"customer,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	WithReceipt   bool   `json:"withReceipt"`
	TenderedPaise int64  `json:"tenderedPaise,omitempty"`
}

// BillSubmitRequest is the admin billing-screen payload: raw lines plus
// payment details. Lines are validated through the bill accumulator.
type BillSubmitRequest struct {
	Items         []LineItem `json:"items"`
	PaymentMethod string     `json:"paymentMethod"`
	WithReceipt   bool       `json:"withReceipt"`
	TenderedPaise int64      `json:"tenderedPaise,omitempty"`
}

// CheckoutRequest is the storefront payload for a customer order.
type CheckoutRequest struct {
	Customer string     `json:"customer"`
	Phone    string     `json:"phone"`
	Notes    string     `json:"notes,omitempty"`
	Items    []LineItem `json:"items"`
}

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	PricePerKgPaise int64     `json:"pricePerKgPaise"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Category groups products and tracks day stock. WholeQuantity is the
// quantity the shop opened with, QuantityLeft what remains; customer
// checkouts decrement both, clamped at zero.
type Category struct {
	ID              string    `json:"id"`
	Key             string    `json:"key"`
	Name            string    `json:"name"`
	PricePerKgPaise int64     `json:"pricePerKgPaise,omitempty"`
	WholeQuantity   int       `json:"wholeQuantity"`
	QuantityLeft    int       `json:"quantityLeft"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// QuickItem is a billing-screen shortcut.
type QuickItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	PricePerKgPaise int64     `json:"pricePerKgPaise"`
	CreatedAt       time.Time `json:"createdAt"`
}

type SalaryEntry struct {
	AmountPaise int64     `json:"amountPaise"`
	Date        string    `json:"date"`
	Note        string    `json:"note,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

type LeaveEntry struct {
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Days       int       `json:"days"`
	Reason     string    `json:"reason,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

type AdvanceEntry struct {
	AmountPaise int64     `json:"amountPaise"`
	Date        string    `json:"date"`
	Note        string    `json:"note,omitempty"`
	RecordedAt  time.Time `json:"recordedAt"`
}

// Employee is an HR record, separate from login accounts. The history
// slices are append-only.
type Employee struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Phone              string         `json:"phone,omitempty"`
	Role               string         `json:"role,omitempty"`
	MonthlySalaryPaise int64          `json:"monthlySalaryPaise,omitempty"`
	Active             bool           `json:"active"`
	SalaryHistory      []SalaryEntry  `json:"salaryHistory"`
	LeaveHistory       []LeaveEntry   `json:"leaveHistory"`
	AdvanceHistory     []AdvanceEntry `json:"advanceHistory"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// DailyStock records per-category opening counts for one calendar day.
// Date is formatted 2006-01-02.
type DailyStock struct {
	Date      string         `json:"date"`
	Counts    map[string]int `json:"counts"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ProductSummary is one aggregated row of a sales summary, keyed by
// item name. AvgPricePerKgPaise is zero when no contributing line
// carried a rate.
type ProductSummary struct {
	Name               string  `json:"name"`
	Qty                int     `json:"qty"`
	TotalPaise         int64   `json:"totalPaise"`
	WeightKg           float64 `json:"weightKg"`
	AvgPricePerKgPaise int64   `json:"avgPricePerKgPaise"`
	OrderCount         int     `json:"orderCount"`
	CashPaise          int64   `json:"cashPaise"`
	OnlinePaise        int64   `json:"onlinePaise"`
}

type SummaryReport struct {
	From    string           `json:"from,omitempty"`
	To      string           `json:"to,omitempty"`
	Rows    []ProductSummary `json:"rows"`
	Overall ProductSummary   `json:"overall"`
}

type AnalyticsSnapshot struct {
	TotalOrders       int   `json:"totalOrders"`
	TotalRevenuePaise int64 `json:"totalRevenuePaise"`
	PendingOrders     int   `json:"pendingOrders"`
	CompletedOrders   int   `json:"completedOrders"`
}

type ReceiptResponse struct {
	OrderID      string `json:"orderId"`
	FileName     string `json:"fileName"`
	PreviewText  string `json:"previewText"`
	EscposBase64 string `json:"escposBase64"`
}

type AuditLog struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Actor identifies the authenticated user on a request.
type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expiresAt"`
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
