// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/bhaktistream/feedrank/internal/metrics"
	"github.com/bhaktistream/feedrank/internal/rank"
)

// Badger is a persistent rank.Store backed by BadgerDB.
//
// Orderings survive restarts, so a user mid-session keeps the same feed
// across a deploy. Badger's native TTL is set to the retention as a
// space backstop; the logical expiry check still belongs to the ranker.
type Badger struct {
	db        *badger.DB
	retention time.Duration
}

// NewBadger opens (or creates) a badger store at path.
func NewBadger(path string, retention time.Duration) (*Badger, error) {
	if retention <= 0 {
		retention = 24 * time.Hour
	}

	opts := badger.DefaultOptions(path).
		WithLogger(nil). // badger's own logger is too chatty for a KV this small
		WithIndexCacheSize(16 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	return &Badger{db: db, retention: retention}, nil
}

// Get retrieves the entry for key.
func (b *Badger) Get(_ context.Context, key string) (rank.Entry, bool, error) {
	var entry rank.Entry
	found := false

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return fmt.Errorf("decode entry: %w", err)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return rank.Entry{}, false, fmt.Errorf("read entry %s: %w", key, err)
	}

	if found {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}
	return entry, found, nil
}

// Set stores the entry under key, replacing any previous one.
func (b *Badger) Set(_ context.Context, key string, entry rank.Entry) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), val).WithTTL(b.retention)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("write entry %s: %w", key, err)
	}
	return nil
}

// Clear removes the entry for key if present.
func (b *Badger) Clear(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Ensure Badger implements the store interface.
var _ rank.Store = (*Badger)(nil)
