package repos

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

var slotBucket = []byte("cart_slots")

// BoltSlots is a file-backed slot store for deployments that keep carts
// outside the sqlite database.
type BoltSlots struct{ db *bolt.DB }

func OpenBoltSlots(path string) (*BoltSlots, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(slotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltSlots{db: db}, nil
}

func (s *BoltSlots) Load(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(slotBucket).Get([]byte(key))
		if v == nil {
			return ErrNoSlot
		}
		// v is only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *BoltSlots) Save(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(slotBucket).Put([]byte(key), value)
	})
}

func (s *BoltSlots) Close() error { return s.db.Close() }
