package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNoSlot is returned by slot stores when nothing was saved under a key.
var ErrNoSlot = errors.New("slot not found")

// SlotRepo keeps opaque blobs under string keys in the cart_slots table.
type SlotRepo struct{ db *sqlx.DB }

func NewSlotRepo(db *sqlx.DB) *SlotRepo { return &SlotRepo{db: db} }

func (r *SlotRepo) Load(key string) ([]byte, error) {
	var v []byte
	err := r.db.Get(&v, `SELECT value FROM cart_slots WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSlot
	}
	return v, err
}

func (r *SlotRepo) Save(key string, value []byte) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_slots(key, value, updated_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}
