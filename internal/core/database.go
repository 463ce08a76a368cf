package core

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vskvj3/geomys-sequence/internal/datastructures"
)

var (
	// ErrEmptyKey is returned when a request names no key.
	ErrEmptyKey = errors.New("key cannot be empty")
	// ErrEmptyValue is returned when a push carries no value.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// Database holds named sequences. The sequences themselves are not safe for
// concurrent use, so every access goes through mu.
type Database struct {
	mu     sync.Mutex
	store  map[string]*datastructures.Sequence[string]
	expiry map[string]int64
}

// Create a new database instance
func NewDatabase() *Database {
	return &Database{
		store:  make(map[string]*datastructures.Sequence[string]),
		expiry: make(map[string]int64),
	}
}

// sequence returns the sequence stored under key, creating it when create is set.
// The caller must hold db.mu.
func (db *Database) sequence(key string, create bool) *datastructures.Sequence[string] {
	seq, ok := db.store[key]
	if !ok && create {
		seq = datastructures.NewSequence[string]()
		db.store[key] = seq
	}
	return seq
}

// existing returns the sequence under key, or a detached empty one when key is
// missing. The caller must hold db.mu.
func (db *Database) existing(key string) *datastructures.Sequence[string] {
	if seq := db.sequence(key, false); seq != nil {
		return seq
	}
	return &datastructures.Sequence[string]{}
}

// read runs fn against the sequence under key. A missing key reads as an empty sequence.
func (db *Database) read(key string, fn func(seq *datastructures.Sequence[string]) error) error {
	if key == "" {
		return ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if err := fn(db.existing(key)); err != nil {
		return errors.Wrapf(err, "key %q", key)
	}
	return nil
}

// PushFront inserts value at the front of the sequence under key
func (db *Database) PushFront(key, value string) (int, error) {
	return db.push(key, value, (*datastructures.Sequence[string]).PushFront)
}

// PushBack appends value at the back of the sequence under key
func (db *Database) PushBack(key, value string) (int, error) {
	return db.push(key, value, (*datastructures.Sequence[string]).PushBack)
}

func (db *Database) push(key, value string, push func(*datastructures.Sequence[string], string)) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	if value == "" {
		return 0, ErrEmptyValue
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	seq := db.sequence(key, true)
	push(seq, value)
	return seq.Size(), nil
}

// PopFront removes and returns the first value of the sequence under key
func (db *Database) PopFront(key string) (string, error) {
	var value string
	err := db.read(key, func(seq *datastructures.Sequence[string]) (err error) {
		value, err = seq.PopFront()
		return err
	})
	return value, err
}

// PopBack removes and returns the last value of the sequence under key
func (db *Database) PopBack(key string) (string, error) {
	var value string
	err := db.read(key, func(seq *datastructures.Sequence[string]) (err error) {
		value, err = seq.PopBack()
		return err
	})
	return value, err
}

// Front returns the first value of the sequence under key
func (db *Database) Front(key string) (string, error) {
	var value string
	err := db.read(key, func(seq *datastructures.Sequence[string]) (err error) {
		value, err = seq.Front()
		return err
	})
	return value, err
}

// Back returns the last value of the sequence under key
func (db *Database) Back(key string) (string, error) {
	var value string
	err := db.read(key, func(seq *datastructures.Sequence[string]) (err error) {
		value, err = seq.Back()
		return err
	})
	return value, err
}

// Size returns the number of values under key
func (db *Database) Size(key string) (int, error) {
	var size int
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		size = seq.Size()
		return nil
	})
	return size, err
}

// Count returns how many values under key equal value
func (db *Database) Count(key, value string) (int, error) {
	var n int
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		n = seq.Count(value)
		return nil
	})
	return n, err
}

// Find returns the zero-based position of the first value equal to value, or -1.
func (db *Database) Find(key, value string) (int, error) {
	pos := -1
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		match := seq.Find(value)
		if match.IsSentinel() {
			return nil
		}
		i := 0
		for c := seq.Begin(); !c.Equal(match); c = c.Next() {
			i++
		}
		pos = i
		return nil
	})
	return pos, err
}

// Erase removes every value equal to value and returns how many were removed
func (db *Database) Erase(key, value string) (int, error) {
	var n int
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		n = seq.Erase(value)
		return nil
	})
	return n, err
}

// Range returns the values under key, front to back
func (db *Database) Range(key string) ([]string, error) {
	var values []string
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		values = seq.Values()
		return nil
	})
	return values, err
}

// Dump returns the debug rendering of the sequence under key
func (db *Database) Dump(key string) (string, error) {
	var text string
	err := db.read(key, func(seq *datastructures.Sequence[string]) error {
		text = seq.String()
		return nil
	})
	return text, err
}

// Copy replaces dest with a deep copy of the sequence under key
func (db *Database) Copy(key, dest string) error {
	if key == "" || dest == "" {
		return ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.sequence(dest, true).Assign(db.existing(key))
	delete(db.expiry, dest)
	return nil
}

// Move transfers the sequence under key into dest and leaves key empty
func (db *Database) Move(key, dest string) error {
	if key == "" || dest == "" {
		return ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.sequence(dest, true).MoveFrom(db.existing(key))
	delete(db.expiry, dest)
	return nil
}

// Swap exchanges the sequences under key and dest
func (db *Database) Swap(key, dest string) error {
	if key == "" || dest == "" {
		return ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.sequence(key, true).Swap(db.sequence(dest, true))
	return nil
}

// Delete releases the sequence under key and reports whether it existed
func (db *Database) Delete(key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	return db.remove(key), nil
}

// remove releases and forgets key. The caller must hold db.mu.
func (db *Database) remove(key string) bool {
	seq, ok := db.store[key]
	if ok {
		seq.Release()
		delete(db.store, key)
	}
	delete(db.expiry, key)
	return ok
}

// Expire schedules key for removal after ttlMs milliseconds
func (db *Database) Expire(key string, ttlMs int64) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttlMs <= 0 {
		return errors.Newf("invalid ttl %d", ttlMs)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.store[key]; !ok {
		return errors.Newf("key %q not found", key)
	}
	now := time.Now().UnixMilli()
	if ttlMs > math.MaxInt64-now {
		// saturate instead of wrapping into the past
		db.expiry[key] = math.MaxInt64
		return nil
	}
	db.expiry[key] = now + ttlMs
	return nil
}

// Keys returns the stored keys in sorted order
func (db *Database) Keys() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	keys := make([]string, 0, len(db.store))
	for key := range db.store {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// removeExpired drops every key whose expiry is before now
func (db *Database) removeExpired(now int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for key, expiry := range db.expiry {
		if now > expiry {
			db.remove(key)
		}
	}
}

// StartCleanup removes expired keys every interval until ctx is done
func (db *Database) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				db.removeExpired(time.Now().UnixMilli())
			}
		}
	}()
}
