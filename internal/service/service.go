package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taaza/backend/internal/billing"
	"taaza/backend/internal/cache"
	"taaza/backend/internal/domain"
	"taaza/backend/internal/orderid"
	"taaza/backend/internal/report"
	"taaza/backend/internal/store"
	"taaza/backend/internal/xid"
)

var (
	// ErrEmptyBill is returned when a submission carries no lines. The
	// sequence counter is never touched in that case.
	ErrEmptyBill = errors.New("bill has no line items")
	// ErrOrderPersistFailed wraps a storage failure after a sequence
	// number was already allocated. The allocated number stays burned;
	// gaps in the lineage are expected and never reused.
	ErrOrderPersistFailed = errors.New("order could not be persisted")
	// ErrInvalidPayment is returned for payment methods other than
	// cash/online (matched case-insensitively).
	ErrInvalidPayment = errors.New("invalid payment method")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo       store.Repository
	reports    cache.ReportCache
	summaryTTL time.Duration
	shopName   string
	shopPhone  string
}

func New(repo store.Repository, reports cache.ReportCache, summaryTTL time.Duration, shopName, shopPhone string) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if summaryTTL <= 0 {
		summaryTTL = 2 * time.Minute
	}
	if shopName == "" {
		shopName = "TAAZA CHIKEN AND MUTTON"
	}

	return &Service{
		repo:       repo,
		reports:    reports,
		summaryTTL: summaryTTL,
		shopName:   shopName,
		shopPhone:  shopPhone,
	}
}

// SubmitOrder turns a bill into a persisted order. The sequence number
// is allocated before the write; if the write then fails the number is
// lost for good, so order ids stay unique but not dense. The bill is
// cleared only on success.
func (s *Service) SubmitOrder(ctx context.Context, bill *billing.Bill, req domain.OrderSubmitRequest) (domain.Order, error) {
	if bill == nil || bill.Len() == 0 {
		return domain.Order{}, ErrEmptyBill
	}

	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if _, err := orderid.Prefix(channel); err != nil {
		return domain.Order{}, err
	}
	payment, err := normalizePayment(req.PaymentMethod)
	if err != nil {
		return domain.Order{}, err
	}
	if req.TenderedPaise < 0 {
		return domain.Order{}, store.ErrInvalidRecord
	}

	seq, err := s.repo.NextOrderSequence(ctx, channel)
	if err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	orderID, err := orderid.Generate(channel, seq, now)
	if err != nil {
		return domain.Order{}, err
	}

	status := domain.OrderStatusCompleted
	if channel == domain.ChannelCustomer {
		status = domain.OrderStatusPending
	}

	totals := bill.Totals()
	order := domain.Order{
		ID:            xid.New("order"),
		OrderID:       orderID,
		Channel:       channel,
		Items:         bill.Lines(),
		TotalPaise:    totals.SubtotalPaise,
		PaymentMethod: payment,
		Status:        status,
		Customer:      strings.TrimSpace(req.Customer),
		Phone:         strings.TrimSpace(req.Phone),
		Notes:         strings.TrimSpace(req.Notes),
		WithReceipt:   req.WithReceipt,
		TenderedPaise: req.TenderedPaise,
		CreatedAt:     now,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
	}

	bill.Clear()

	if channel == domain.ChannelCustomer {
		s.decrementStockForOrder(ctx, *created)
	}

	s.logAudit(ctx, "order_submit", "order", created.OrderID,
		fmt.Sprintf("channel=%s,payment=%s,total=%d,items=%d", channel, payment, created.TotalPaise, len(created.Items)))

	return *created, nil
}

// decrementStockForOrder reduces category stock for a customer order.
// Stock tracking is advisory; a failure here must never undo a sale.
func (s *Service) decrementStockForOrder(ctx context.Context, order domain.Order) {
	byCategory := make(map[string]int)
	for _, item := range order.Items {
		if item.Category == "" {
			continue
		}
		qty := item.Qty
		if qty < 1 {
			qty = 1
		}
		byCategory[item.Category] += qty
	}
	for key, qty := range byCategory {
		if err := s.repo.DecrementCategoryStock(ctx, key, qty); err != nil {
			log.Printf("[service] WARN: failed to decrement stock category=%s qty=%d order=%s: %v", key, qty, order.OrderID, err)
		}
	}
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

// ListOrders resolves a named date filter (today/week/month/custom) and
// returns matching orders, newest first. Custom bounds are inclusive
// calendar dates formatted 2006-01-02.
func (s *Service) ListOrders(ctx context.Context, filter, fromStr, toStr string, limit int) ([]domain.Order, error) {
	from, to, err := resolveDateRange(filter, fromStr, toStr, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, from, to, limit)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status string) (domain.Order, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Order{}, fmt.Errorf("admin role required")
	}

	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusCompleted, domain.OrderStatusCancelled:
	default:
		return domain.Order{}, store.ErrInvalidRecord
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, strings.TrimSpace(id), status)
	if err != nil {
		return domain.Order{}, err
	}

	s.logAudit(ctx, "order_status_update", "order", updated.OrderID, "status="+status)
	return *updated, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	order, err := s.repo.GetOrder(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, order.ID); err != nil {
		return err
	}

	s.logAudit(ctx, "order_delete", "order", order.OrderID, fmt.Sprintf("total=%d", order.TotalPaise))
	return nil
}

// Summary aggregates sales for a date window, serving from the report
// cache when a fresh copy exists. Cache failures fall through to a
// recompute.
func (s *Service) Summary(ctx context.Context, filter, fromStr, toStr string) (domain.SummaryReport, error) {
	now := time.Now().UTC()
	from, to, err := resolveDateRange(filter, fromStr, toStr, now)
	if err != nil {
		return domain.SummaryReport{}, err
	}

	key := summaryCacheKey(filter, from, to)
	if cached, ok, err := s.reports.Get(ctx, key); err != nil {
		log.Printf("[service] WARN: summary cache get failed key=%s: %v", key, err)
	} else if ok {
		return *cached, nil
	}

	orders, err := s.repo.ListOrders(ctx, from, to, 0)
	if err != nil {
		return domain.SummaryReport{}, err
	}

	summary := report.Summarize(orders)
	if !from.IsZero() {
		summary.From = from.Format("2006-01-02")
	}
	if !to.IsZero() {
		summary.To = to.Add(-24 * time.Hour).Format("2006-01-02")
	}

	if err := s.reports.Set(ctx, key, &summary, s.summaryTTL); err != nil {
		log.Printf("[service] WARN: summary cache set failed key=%s: %v", key, err)
	}
	return summary, nil
}

func (s *Service) Analytics(ctx context.Context) (domain.AnalyticsSnapshot, error) {
	orders, err := s.repo.ListOrders(ctx, time.Time{}, time.Time{}, 0)
	if err != nil {
		return domain.AnalyticsSnapshot{}, err
	}
	return report.Analytics(orders), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.ToLower(strings.TrimSpace(product.Category))
	if product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return domain.Product{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,rate=%d", created.Name, created.PricePerKgPaise))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	product.ID = strings.TrimSpace(id)
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.ToLower(strings.TrimSpace(product.Category))
	if product.ID == "" || product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return domain.Product{}, store.ErrInvalidRecord
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", updated.ID, fmt.Sprintf("name=%s,rate=%d", updated.Name, updated.PricePerKgPaise))
	return *updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteProduct(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logAudit(ctx, "product_delete", "product", id, "")
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Category{}, fmt.Errorf("admin role required")
	}

	category.Key = strings.ToLower(strings.TrimSpace(category.Key))
	category.Name = strings.TrimSpace(category.Name)
	if category.Key == "" || category.Name == "" || category.WholeQuantity < 0 {
		return domain.Category{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}

	s.logAudit(ctx, "category_create", "category", created.Key, fmt.Sprintf("name=%s,stock=%d", created.Name, created.WholeQuantity))
	return *created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, category domain.Category) (domain.Category, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Category{}, fmt.Errorf("admin role required")
	}

	category.ID = strings.TrimSpace(id)
	category.Key = strings.ToLower(strings.TrimSpace(category.Key))
	category.Name = strings.TrimSpace(category.Name)
	if category.ID == "" || category.Key == "" || category.Name == "" {
		return domain.Category{}, store.ErrInvalidRecord
	}
	if category.WholeQuantity < 0 || category.QuantityLeft < 0 {
		return domain.Category{}, store.ErrInvalidRecord
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}

	s.logAudit(ctx, "category_update", "category", updated.Key, fmt.Sprintf("stock=%d,left=%d", updated.WholeQuantity, updated.QuantityLeft))
	return *updated, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteCategory(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logAudit(ctx, "category_delete", "category", id, "")
	return nil
}

func (s *Service) ListQuickItems(ctx context.Context) ([]domain.QuickItem, error) {
	return s.repo.ListQuickItems(ctx)
}

func (s *Service) CreateQuickItem(ctx context.Context, item domain.QuickItem) (domain.QuickItem, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.QuickItem{}, fmt.Errorf("admin role required")
	}

	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	if item.Name == "" || item.PricePerKgPaise < 1 {
		return domain.QuickItem{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateQuickItem(ctx, item)
	if err != nil {
		return domain.QuickItem{}, err
	}

	s.logAudit(ctx, "quick_item_create", "quick_item", created.ID, "name="+created.Name)
	return *created, nil
}

func (s *Service) DeleteQuickItem(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteQuickItem(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logAudit(ctx, "quick_item_delete", "quick_item", id, "")
	return nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return nil, fmt.Errorf("admin role required")
	}
	return s.repo.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}
	employee, err := s.repo.GetEmployee(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Employee{}, err
	}
	return *employee, nil
}

func (s *Service) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}

	employee.Name = strings.TrimSpace(employee.Name)
	employee.Phone = strings.TrimSpace(employee.Phone)
	employee.Role = strings.TrimSpace(employee.Role)
	if employee.Name == "" || employee.MonthlySalaryPaise < 0 {
		return domain.Employee{}, store.ErrInvalidRecord
	}

	created, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}

	s.logAudit(ctx, "employee_create", "employee", created.ID, "name="+created.Name)
	return *created, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, employee domain.Employee) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}

	employee.ID = strings.TrimSpace(id)
	employee.Name = strings.TrimSpace(employee.Name)
	if employee.ID == "" || employee.Name == "" || employee.MonthlySalaryPaise < 0 {
		return domain.Employee{}, store.ErrInvalidRecord
	}

	updated, err := s.repo.UpdateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, err
	}

	s.logAudit(ctx, "employee_update", "employee", updated.ID, "name="+updated.Name)
	return *updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	if err := s.repo.DeleteEmployee(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logAudit(ctx, "employee_delete", "employee", id, "")
	return nil
}

func (s *Service) AddEmployeeSalary(ctx context.Context, employeeID string, entry domain.SalaryEntry) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}

	if entry.AmountPaise < 1 {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	entry.RecordedAt = time.Now().UTC()

	updated, err := s.repo.AppendSalaryEntry(ctx, strings.TrimSpace(employeeID), entry)
	if err != nil {
		return domain.Employee{}, err
	}

	s.logAudit(ctx, "employee_salary", "employee", updated.ID, fmt.Sprintf("amount=%d,date=%s", entry.AmountPaise, entry.Date))
	return *updated, nil
}

func (s *Service) AddEmployeeLeave(ctx context.Context, employeeID string, entry domain.LeaveEntry) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}

	days, err := leaveDays(entry.StartDate, entry.EndDate)
	if err != nil {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	entry.Days = days
	entry.RecordedAt = time.Now().UTC()

	updated, err := s.repo.AppendLeaveEntry(ctx, strings.TrimSpace(employeeID), entry)
	if err != nil {
		return domain.Employee{}, err
	}

	s.logAudit(ctx, "employee_leave", "employee", updated.ID, fmt.Sprintf("days=%d,from=%s,to=%s", days, entry.StartDate, entry.EndDate))
	return *updated, nil
}

func (s *Service) AddEmployeeAdvance(ctx context.Context, employeeID string, entry domain.AdvanceEntry) (domain.Employee, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Employee{}, fmt.Errorf("admin role required")
	}

	if entry.AmountPaise < 1 {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return domain.Employee{}, store.ErrInvalidRecord
	}
	entry.RecordedAt = time.Now().UTC()

	updated, err := s.repo.AppendAdvanceEntry(ctx, strings.TrimSpace(employeeID), entry)
	if err != nil {
		return domain.Employee{}, err
	}

	s.logAudit(ctx, "employee_advance", "employee", updated.ID, fmt.Sprintf("amount=%d,date=%s", entry.AmountPaise, entry.Date))
	return *updated, nil
}

func (s *Service) GetDailyStock(ctx context.Context, date string) (domain.DailyStock, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.DailyStock{}, store.ErrInvalidRecord
	}
	stock, err := s.repo.GetDailyStock(ctx, date)
	if err != nil {
		return domain.DailyStock{}, err
	}
	return *stock, nil
}

func (s *Service) SetDailyStock(ctx context.Context, stock domain.DailyStock) (domain.DailyStock, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.DailyStock{}, fmt.Errorf("admin role required")
	}

	stock.Date = strings.TrimSpace(stock.Date)
	if _, err := time.Parse("2006-01-02", stock.Date); err != nil {
		return domain.DailyStock{}, store.ErrInvalidRecord
	}
	for _, count := range stock.Counts {
		if count < 0 {
			return domain.DailyStock{}, store.ErrInvalidRecord
		}
	}

	saved, err := s.repo.SetDailyStock(ctx, stock)
	if err != nil {
		return domain.DailyStock{}, err
	}

	s.logAudit(ctx, "daily_stock_set", "daily_stock", saved.Date, fmt.Sprintf("entries=%d", len(saved.Counts)))
	return *saved, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, day time.Time) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return nil, fmt.Errorf("admin role required")
	}
	return s.repo.ListAuditLogs(ctx, day)
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:         xid.New("audit"),
		Actor:      actor.Username,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		log.Printf("[service] WARN: failed to write audit log action=%s entity=%s: %v", action, entityID, err)
	}
}

func normalizePayment(method string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "cash":
		return domain.PaymentCash, nil
	case "online":
		return domain.PaymentOnline, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPayment, method)
	}
}

// leaveDays counts calendar days inclusively. Same-day leave is one
// day; an end before the start still counts as one.
func leaveDays(startStr, endStr string) (int, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(startStr))
	if err != nil {
		return 0, err
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(endStr))
	if err != nil {
		return 0, err
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days, nil
}

// resolveDateRange turns a named filter into a half-open UTC window
// [from, to). Weeks start on Monday. An empty filter means no bounds.
func resolveDateRange(filter, fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
		return time.Time{}, time.Time{}, nil
	case "today":
		return today, today.Add(24 * time.Hour), nil
	case "week":
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, today.Add(24 * time.Hour), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, today.Add(24 * time.Hour), nil
	case "custom":
		from, err := time.Parse("2006-01-02", strings.TrimSpace(fromStr))
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrInvalidRecord
		}
		to, err := time.Parse("2006-01-02", strings.TrimSpace(toStr))
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrInvalidRecord
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, store.ErrInvalidRecord
		}
		return from, to.Add(24 * time.Hour), nil
	default:
		return time.Time{}, time.Time{}, store.ErrInvalidRecord
	}
}

func summaryCacheKey(filter string, from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return "summary:all"
	}
	return fmt.Sprintf("summary:%s:%s:%s", strings.ToLower(strings.TrimSpace(filter)), from.Format("20060102"), to.Format("20060102"))
}
