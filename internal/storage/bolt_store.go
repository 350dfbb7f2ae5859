package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var deliveriesBucket = []byte("deliveries")

var errBucketMissing = errors.New("deliveries bucket missing")

// delivery is the value kept under a target id: an 8 byte big-endian unix
// expiry followed by the snapshot fingerprint.
type delivery struct {
	expires     time.Time
	fingerprint string
}

func (d delivery) encode() []byte {
	buf := make([]byte, 8+len(d.fingerprint))
	binary.BigEndian.PutUint64(buf, uint64(d.expires.Unix()))
	copy(buf[8:], d.fingerprint)
	return buf
}

func decodeDelivery(value []byte) (delivery, bool) {
	if len(value) <= 8 {
		return delivery{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:8]))
	if unix <= 0 {
		return delivery{}, false
	}
	return delivery{expires: time.Unix(unix, 0), fingerprint: string(value[8:])}, true
}

func (d delivery) liveAt(now time.Time) bool { return d.expires.After(now) }

// boltStore keeps one delivery record per target in a single bucket.
type boltStore struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	mu        sync.Mutex
	nextSweep time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(deliveriesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	s := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	s.nextSweep = s.now().Add(s.cleanupInterval)
	return s, nil
}

func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Last returns the live fingerprint for targetID. A lapsed record is deleted.
func (s *boltStore) Last(targetID string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, nil
	}
	now := s.now()
	if err := s.sweepIfDue(now); err != nil {
		return "", false, err
	}

	var (
		fp string
		ok bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deliveriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		key := []byte(targetID)
		raw := bucket.Get(key)
		if raw == nil {
			return nil
		}
		d, valid := decodeDelivery(raw)
		if !valid || !d.liveAt(now) {
			return bucket.Delete(key)
		}
		fp, ok = d.fingerprint, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("read delivery for %s: %w", targetID, err)
	}
	return fp, ok, nil
}

// Record stores fingerprint as the last delivery of targetID for one TTL.
func (s *boltStore) Record(targetID, fingerprint string) error {
	if s == nil || s.db == nil {
		return nil
	}
	if targetID == "" || fingerprint == "" {
		return fmt.Errorf("record delivery: target id and fingerprint are required")
	}
	now := s.now()
	if err := s.sweepIfDue(now); err != nil {
		return err
	}

	d := delivery{expires: now.Add(s.ttl), fingerprint: fingerprint}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deliveriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(targetID), d.encode())
	})
	if err != nil {
		return fmt.Errorf("record delivery for %s: %w", targetID, err)
	}
	return nil
}

// sweepIfDue drops lapsed records of targets that are no longer read.
func (s *boltStore) sweepIfDue(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.nextSweep) {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deliveriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		var stale [][]byte
		if err := bucket.ForEach(func(k, v []byte) error {
			if d, ok := decodeDelivery(v); !ok || !d.liveAt(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep deliveries: %w", err)
	}
	s.nextSweep = now.Add(s.cleanupInterval)
	return nil
}

// size returns the number of stored records, lapsed or not.
func (s *boltStore) size() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deliveriesBucket)
		if bucket == nil {
			return errBucketMissing
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}
