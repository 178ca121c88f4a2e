package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"taaza/backend/internal/domain"
	"taaza/backend/internal/store"
	"taaza/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NextOrderSequence allocates the next number for a channel in one
// atomic upsert. The row is created lazily at 1; concurrent callers
// serialize on the row lock, so no number is ever handed out twice.
func (s *Store) NextOrderSequence(ctx context.Context, channel string) (int64, error) {
	if channel != domain.ChannelAdmin && channel != domain.ChannelCustomer {
		return 0, store.ErrInvalidRecord
	}

	var current int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO order_counters (channel, current)
		VALUES ($1, 1)
		ON CONFLICT (channel) DO UPDATE
		SET current = order_counters.current + 1
		RETURNING current
	`, channel).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrSequenceUnavailable, err)
	}
	return current, nil
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" || order.OrderID == "" || len(order.Items) == 0 {
		return nil, store.ErrInvalidRecord
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	order.UpdatedAt = order.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_id, channel, total_paise, payment_method, status,
			customer_name, customer_phone, notes, with_receipt, tendered_paise, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, order.ID, order.OrderID, order.Channel, order.TotalPaise, order.PaymentMethod, order.Status,
		order.Customer, order.Phone, order.Notes, order.WithReceipt, order.TenderedPaise,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, name, category, qty,
				amount_paise, weight_kg, price_per_kg_paise, total_paise)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, order.ID, i, item.Name, item.Category, item.Qty,
			item.AmountPaise, item.WeightKg, item.PricePerKgPaise, item.TotalPaise)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	created := order
	return &created, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_id, channel, total_paise, payment_method, status,
			customer_name, customer_phone, notes, with_receipt, tendered_paise, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderID, &order.Channel, &order.TotalPaise, &order.PaymentMethod,
		&order.Status, &order.Customer, &order.Phone, &order.Notes, &order.WithReceipt,
		&order.TenderedPaise, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()

	items, err := s.orderItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, from, to time.Time, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, order_id, channel, total_paise, payment_method, status,
			customer_name, customer_phone, notes, with_receipt, tendered_paise, created_at, updated_at
		FROM orders
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC, order_id DESC
	`
	args := []any{nullTimeBound(from), nullTimeBound(to)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 64)
	ids := make([]string, 0, 64)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.OrderID, &order.Channel, &order.TotalPaise,
			&order.PaymentMethod, &order.Status, &order.Customer, &order.Phone, &order.Notes,
			&order.WithReceipt, &order.TenderedPaise, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.CreatedAt = order.CreatedAt.UTC()
		order.UpdatedAt = order.UpdatedAt.UTC()
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *Store) orderItems(ctx context.Context, orderIDs []string) (map[string][]domain.LineItem, error) {
	result := make(map[string][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, name, category, qty, amount_paise, weight_kg, price_per_kg_paise, total_paise
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var item domain.LineItem
		if err := rows.Scan(&orderID, &item.Name, &item.Category, &item.Qty,
			&item.AmountPaise, &item.WeightKg, &item.PricePerKgPaise, &item.TotalPaise); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price_per_kg_paise, active, created_at, updated_at
		FROM products
		WHERE active = true
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PricePerKgPaise, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, price_per_kg_paise, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Category, &p.PricePerKgPaise, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	product.Active = true
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price_per_kg_paise, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, product.ID, product.Name, product.Category, product.PricePerKgPaise, product.Active, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.Category == "" || product.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category = $3, price_per_kg_paise = $4, active = $5, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Category, product.PricePerKgPaise, product.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, name, price_per_kg_paise, whole_quantity, quantity_left, created_at, updated_at
		FROM categories
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, 16)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Key, &c.Name, &c.PricePerKgPaise, &c.WholeQuantity, &c.QuantityLeft, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategoryByKey(ctx context.Context, key string) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, name, price_per_kg_paise, whole_quantity, quantity_left, created_at, updated_at
		FROM categories
		WHERE key = $1
	`, key).Scan(&c.ID, &c.Key, &c.Name, &c.PricePerKgPaise, &c.WholeQuantity, &c.QuantityLeft, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.Key == "" || category.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	if category.QuantityLeft == 0 {
		category.QuantityLeft = category.WholeQuantity
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, key, name, price_per_kg_paise, whole_quantity, quantity_left, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, category.ID, category.Key, category.Name, category.PricePerKgPaise, category.WholeQuantity, category.QuantityLeft, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := category
	return &created, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" || category.Key == "" || category.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET key = $2, name = $3, price_per_kg_paise = $4, whole_quantity = $5, quantity_left = $6, updated_at = now()
		WHERE id = $1
	`, category.ID, category.Key, category.Name, category.PricePerKgPaise, category.WholeQuantity, category.QuantityLeft)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetCategoryByKey(ctx, category.Key)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DecrementCategoryStock(ctx context.Context, key string, qty int) error {
	if qty < 1 {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET whole_quantity = GREATEST(0, whole_quantity - $2),
		    quantity_left = GREATEST(0, quantity_left - $2),
		    updated_at = now()
		WHERE key = $1
	`, key, qty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListQuickItems(ctx context.Context) ([]domain.QuickItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price_per_kg_paise, created_at
		FROM quick_items
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.QuickItem, 0, 16)
	for rows.Next() {
		var q domain.QuickItem
		if err := rows.Scan(&q.ID, &q.Name, &q.Category, &q.PricePerKgPaise, &q.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CreateQuickItem(ctx context.Context, item domain.QuickItem) (*domain.QuickItem, error) {
	if item.Name == "" || item.PricePerKgPaise < 1 {
		return nil, store.ErrInvalidRecord
	}
	if item.ID == "" {
		item.ID = xid.New("qk")
	}
	item.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quick_items (id, name, category, price_per_kg_paise, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, item.ID, item.Name, item.Category, item.PricePerKgPaise, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := item
	return &created, nil
}

func (s *Store) DeleteQuickItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quick_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, role, monthly_salary_paise, active,
			salary_history, leave_history, advance_history, created_at, updated_at
		FROM employees
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 16)
	for rows.Next() {
		employee, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, role, monthly_salary_paise, active,
			salary_history, leave_history, advance_history, created_at, updated_at
		FROM employees
		WHERE id = $1
	`, id)

	employee, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.Name == "" {
		return nil, store.ErrInvalidRecord
	}
	if employee.ID == "" {
		employee.ID = xid.New("emp")
	}
	employee.Active = true
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	salary, leave, advance, err := marshalHistories(employee)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, phone, role, monthly_salary_paise, active,
			salary_history, leave_history, advance_history, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, employee.ID, employee.Name, employee.Phone, employee.Role, employee.MonthlySalaryPaise,
		employee.Active, salary, leave, advance, employee.CreatedAt, employee.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	created := employee
	return &created, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employee domain.Employee) (*domain.Employee, error) {
	if employee.ID == "" || employee.Name == "" {
		return nil, store.ErrInvalidRecord
	}

	// Histories are append-only and deliberately left out of the SET
	// list; only the Append methods touch them.
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $2, phone = $3, role = $4, monthly_salary_paise = $5, active = $6, updated_at = now()
		WHERE id = $1
	`, employee.ID, employee.Name, employee.Phone, employee.Role, employee.MonthlySalaryPaise, employee.Active)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetEmployee(ctx, employee.ID)
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AppendSalaryEntry(ctx context.Context, employeeID string, entry domain.SalaryEntry) (*domain.Employee, error) {
	return s.appendHistory(ctx, employeeID, "salary_history", entry)
}

func (s *Store) AppendLeaveEntry(ctx context.Context, employeeID string, entry domain.LeaveEntry) (*domain.Employee, error) {
	return s.appendHistory(ctx, employeeID, "leave_history", entry)
}

func (s *Store) AppendAdvanceEntry(ctx context.Context, employeeID string, entry domain.AdvanceEntry) (*domain.Employee, error) {
	return s.appendHistory(ctx, employeeID, "advance_history", entry)
}

// appendHistory pushes one entry onto a jsonb history column. The ||
// concat keeps the append atomic without a read-modify-write.
func (s *Store) appendHistory(ctx context.Context, employeeID string, column string, entry any) (*domain.Employee, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE employees
		SET %s = %s || $2::jsonb, updated_at = now()
		WHERE id = $1
	`, column, column), employeeID, string(payload))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetEmployee(ctx, employeeID)
}

func (s *Store) GetDailyStock(ctx context.Context, date string) (*domain.DailyStock, error) {
	var stock domain.DailyStock
	var counts []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT stock_date, counts, updated_at
		FROM daily_stock
		WHERE stock_date = $1
	`, date).Scan(&stock.Date, &counts, &stock.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(counts, &stock.Counts); err != nil {
		return nil, err
	}
	stock.UpdatedAt = stock.UpdatedAt.UTC()
	return &stock, nil
}

func (s *Store) SetDailyStock(ctx context.Context, stock domain.DailyStock) (*domain.DailyStock, error) {
	if stock.Date == "" {
		return nil, store.ErrInvalidRecord
	}
	if stock.Counts == nil {
		stock.Counts = map[string]int{}
	}
	payload, err := json.Marshal(stock.Counts)
	if err != nil {
		return nil, err
	}
	stock.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_stock (stock_date, counts, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (stock_date) DO UPDATE
		SET counts = EXCLUDED.counts, updated_at = EXCLUDED.updated_at
	`, stock.Date, string(payload), stock.UpdatedAt)
	if err != nil {
		return nil, err
	}

	saved := stock
	return &saved, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, entry.ID, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, day time.Time) ([]domain.AuditLog, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
	`, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, 32)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if user.Role == "" {
		user.Role = "cashier"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidRecord
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanEmployee(scan func(dest ...any) error) (*domain.Employee, error) {
	var employee domain.Employee
	var salary, leave, advance []byte
	if err := scan(&employee.ID, &employee.Name, &employee.Phone, &employee.Role,
		&employee.MonthlySalaryPaise, &employee.Active, &salary, &leave, &advance,
		&employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(salary, &employee.SalaryHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(leave, &employee.LeaveHistory); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(advance, &employee.AdvanceHistory); err != nil {
		return nil, err
	}
	employee.CreatedAt = employee.CreatedAt.UTC()
	employee.UpdatedAt = employee.UpdatedAt.UTC()
	return &employee, nil
}

func marshalHistories(employee domain.Employee) (string, string, string, error) {
	if employee.SalaryHistory == nil {
		employee.SalaryHistory = []domain.SalaryEntry{}
	}
	if employee.LeaveHistory == nil {
		employee.LeaveHistory = []domain.LeaveEntry{}
	}
	if employee.AdvanceHistory == nil {
		employee.AdvanceHistory = []domain.AdvanceEntry{}
	}

	salary, err := json.Marshal(employee.SalaryHistory)
	if err != nil {
		return "", "", "", err
	}
	leave, err := json.Marshal(employee.LeaveHistory)
	if err != nil {
		return "", "", "", err
	}
	advance, err := json.Marshal(employee.AdvanceHistory)
	if err != nil {
		return "", "", "", err
	}
	return string(salary), string(leave), string(advance), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullTimeBound(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
