package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"

	bolt "go.etcd.io/bbolt"
)

const reportsBktName = "reports"

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "reports.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{reportsBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Put saves the report as the latest one for its ticker.
func (b *Bolt) Put(_ context.Context, r Report) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(reportsBktName))

		bts, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}

		if err := bkt.Put([]byte(r.Ticker), bts); err != nil {
			return fmt.Errorf("put report to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// List returns stored reports, newest first.
func (b *Bolt) List(_ context.Context, req ListRequest) ([]Report, error) {
	var result []Report
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(reportsBktName))
		err := bkt.ForEach(func(k, v []byte) error {
			var r Report
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal report %s: %w", k, err)
			}
			result = append(result, r)
			return nil
		})
		if err != nil {
			return fmt.Errorf("foreach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}

	return result, nil
}

// Get returns the latest report for the given ticker.
func (b *Bolt) Get(_ context.Context, ticker string) (r Report, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(reportsBktName))

		bts := bkt.Get([]byte(ticker))
		if bts == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bts, &r); err != nil {
			return fmt.Errorf("unmarshal report: %w", err)
		}

		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("view storage: %w", err)
	}

	return r, nil
}

// Delete removes the report for the given ticker from storage.
func (b *Bolt) Delete(_ context.Context, ticker string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(reportsBktName))

		if err := bkt.Delete([]byte(ticker)); err != nil {
			return fmt.Errorf("remove: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }
