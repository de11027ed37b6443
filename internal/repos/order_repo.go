package repos

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID        string  `db:"id"`
	Total     float64 `db:"total"`
	Status    string  `db:"status"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Email     string  `db:"email"`
	Phone     string  `db:"phone"`
	Address   string  `db:"address"`
	City      string  `db:"city"`
	State     string  `db:"state"`
	ZipCode   string  `db:"zip_code"`
	CreatedAt string  `db:"created_at"`
}

type orderItemRow struct {
	ProductJSON string  `db:"product_json"`
	Quantity    int     `db:"quantity"`
	Subtotal    float64 `db:"subtotal"`
}

// Create inserts the order header and its item snapshots.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	c := o.Customer
	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, total, status, first_name, last_name, email, phone, address, city, state, zip_code, created_at)
	  VALUES
	    (?,  ?,     ?,      ?,          ?,         ?,     ?,     ?,       ?,    ?,     ?,        ?)
	`, o.ID, o.Total, string(o.Status), c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address, c.City, c.State, c.ZipCode, o.CreatedDate.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	for i, it := range o.Items {
		pj, err := json.Marshal(it.Product)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, position, product_id, product_json, quantity, subtotal)
		  VALUES(?, ?, ?, ?, ?, ?)
		`, o.ID, i, it.Product.ID, string(pj), it.Quantity, it.Subtotal); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns sql.ErrNoRows when the order does not exist.
func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `
	  SELECT id, total, status, first_name, last_name, email, phone, address, city, state, zip_code, created_at
	  FROM orders WHERE id = ?
	`, id); err != nil {
		return domain.Order{}, err
	}

	var items []orderItemRow
	if err := r.db.Select(&items, `
	  SELECT product_json, quantity, subtotal
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY position
	`, id); err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:     row.ID,
		Total:  row.Total,
		Status: domain.OrderStatus(row.Status),
		Customer: domain.CustomerInfo{
			FirstName: row.FirstName, LastName: row.LastName, Email: row.Email, Phone: row.Phone,
			Address: row.Address, City: row.City, State: row.State, ZipCode: row.ZipCode,
		},
		Items: make([]domain.CartItem, 0, len(items)),
	}
	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: created_at: %w", id, err)
	}
	o.CreatedDate = created
	for _, it := range items {
		var p domain.Product
		if err := json.Unmarshal([]byte(it.ProductJSON), &p); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, domain.CartItem{Product: p, Quantity: it.Quantity, Subtotal: it.Subtotal})
	}
	return o, nil
}

// UpdateStatus moves id from one status to the next. It reports false when the
// order is missing or no longer in the from status.
func (r *OrderRepo) UpdateStatus(id string, from, to domain.OrderStatus) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// Count returns the number of stored orders.
func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}
