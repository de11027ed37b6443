package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite serialises writers anyway and ":memory:" is per connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the demo catalog if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  original_price NUMERIC,
  image TEXT NOT NULL DEFAULT '',
  in_stock INTEGER NOT NULL DEFAULT 1,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  rating REAL NOT NULL DEFAULT 0,
  reviews INTEGER NOT NULL DEFAULT 0,
  discount INTEGER,
  release_date TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

-- Durable key/value slots holding serialized carts
CREATE TABLE IF NOT EXISTS cart_slots(
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Orders (append-only; items are snapshots, not references)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','shipped','delivered')),
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  product_json TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  subtotal NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,description) VALUES
	  ('1','Electronics','Electronic devices and gadgets'),
	  ('2','Clothing','Fashion and apparel'),
	  ('3','Books','Physical and digital books'),
	  ('4','Home & Kitchen','Home appliances and kitchen tools'),
	  ('5','Sports','Sports equipment and gear')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,description,price,original_price,image,in_stock,quantity,rating,reviews,discount,release_date) VALUES
	  ('1','1','Premium Wireless Headphones','High-quality wireless headphones with noise cancellation and 30-hour battery life',199.99,299.99,'https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop',1,50,4.8,245,33,'2024-01-15'),
	  ('2','1','Ultra-Slim Laptop','15-inch laptop with Intel i7, 16GB RAM, 512GB SSD, perfect for professionals',899.99,1199.99,'https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400&h=400&fit=crop',1,25,4.9,156,25,'2024-02-20'),
	  ('3','1','Smart Watch Pro','Advanced fitness tracking with heart rate monitor, GPS, and 7-day battery',299.99,399.99,'https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400&h=400&fit=crop',1,40,4.6,189,25,'2024-01-08'),
	  ('4','2','Cotton T-Shirt Pack','Set of 3 premium cotton t-shirts in various colors, comfortable and durable',49.99,69.99,'https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop',1,100,4.5,98,29,'2024-03-01'),
	  ('5','1','Professional Camera','24MP mirrorless camera with 4K video recording and advanced autofocus',1299.99,1699.99,'https://images.unsplash.com/photo-1526170375885-4d8ecf77b99f?w=400&h=400&fit=crop',0,0,4.9,342,24,'2023-11-10'),
	  ('6','3','The Art of Web Design','Comprehensive guide to modern web design principles and best practices',34.99,NULL,'https://images.unsplash.com/photo-1507842072343-583f20270319?w=400&h=400&fit=crop',1,35,4.7,67,NULL,'2023-09-20'),
	  ('7','4','Stainless Steel Cookware Set','10-piece cookware set with non-stick coating and heat-resistant handles',89.99,149.99,'https://images.unsplash.com/photo-1584568694244-14fbbc83bd30?w=400&h=400&fit=crop',1,28,4.4,145,40,'2024-02-14'),
	  ('8','5','Fitness Yoga Mat','Premium non-slip yoga mat with carrying strap, 6mm thickness',29.99,49.99,'https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=400&h=400&fit=crop',1,55,4.6,112,40,'2024-01-25'),
	  ('9','1','Portable Bluetooth Speaker','Waterproof speaker with 360-degree sound and 12-hour battery life',79.99,129.99,'https://images.unsplash.com/photo-1589003077984-894e133814c9?w=400&h=400&fit=crop',1,42,4.7,223,38,'2024-03-05'),
	  ('10','5','Running Shoes Deluxe','Lightweight running shoes with superior cushioning and breathable mesh',129.99,179.99,'https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400&h=400&fit=crop',1,60,4.8,287,28,'2024-02-01')`)

	return tx.Commit()
}
