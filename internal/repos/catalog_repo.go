package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

const dateLayout = "2006-01-02"

type CatalogRepo struct{ db *sqlx.DB }

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

type productRow struct {
	ID            string          `db:"id"`
	CategoryID    string          `db:"category_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         float64         `db:"price"`
	OriginalPrice sql.NullFloat64 `db:"original_price"`
	Image         string          `db:"image"`
	InStock       bool            `db:"in_stock"`
	Quantity      int             `db:"quantity"`
	Rating        float64         `db:"rating"`
	Reviews       int             `db:"reviews"`
	Discount      sql.NullInt64   `db:"discount"`
	ReleaseDate   string          `db:"release_date"`
}

func (r productRow) product() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		Image:       r.Image,
		InStock:     r.InStock,
		Quantity:    r.Quantity,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
	}
	if r.OriginalPrice.Valid {
		v := r.OriginalPrice.Float64
		p.OriginalPrice = &v
	}
	if r.Discount.Valid {
		v := int(r.Discount.Int64)
		p.Discount = &v
	}
	if t, err := time.Parse(dateLayout, r.ReleaseDate); err == nil {
		p.ReleaseDate = t
	}
	return p
}

func (r *CatalogRepo) Categories() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id, name, description FROM categories ORDER BY CAST(id AS INTEGER), id`)
	return out, err
}

func (r *CatalogRepo) Products() ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `
	  SELECT id, category_id, name, description, price, original_price, image,
	         in_stock, quantity, rating, reviews, discount, release_date
	  FROM products
	  ORDER BY CAST(id AS INTEGER), id
	`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(rows))
	for i, row := range rows {
		out[i] = row.product()
	}
	return out, nil
}

// Replace swaps the whole catalog in one transaction.
func (r *CatalogRepo) Replace(cats []domain.Category, prods []domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return err
	}
	for _, c := range cats {
		if _, err := tx.Exec(`INSERT INTO categories(id,name,description) VALUES(?,?,?)`,
			c.ID, c.Name, c.Description); err != nil {
			return err
		}
	}
	for _, p := range prods {
		var release string
		if !p.ReleaseDate.IsZero() {
			release = p.ReleaseDate.Format(dateLayout)
		}
		if _, err := tx.Exec(`
		  INSERT INTO products(id,category_id,name,description,price,original_price,image,
		                       in_stock,quantity,rating,reviews,discount,release_date)
		  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)
		`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Image,
			p.InStock, p.Quantity, p.Rating, p.Reviews, p.Discount, release); err != nil {
			return err
		}
	}
	return tx.Commit()
}
