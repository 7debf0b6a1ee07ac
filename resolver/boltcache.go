package resolver

import (
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var resolutionsBucket = []byte("resolutions")

// BoltVersionCache wraps an inner resolver with an on-disk memoisation of
// negative outcomes (Unresolvable, UnsupportedIRIType), keyed by IRI. This
// is aimed at HTTPResolver/GitResolver, whose probes are network round
// trips: a repeat query against an IRI already known not to resolve is
// answered from the cache instead of re-probing. Resolved outcomes carry
// live storage handles and are never cached; they are always re-derived
// from Inner.
type BoltVersionCache struct {
	Inner Resolver
	DB    *bolt.DB
}

// OpenBoltVersionCache opens (creating if absent) a bbolt database at path
// and wraps inner with a cache backed by it.
func OpenBoltVersionCache(path string, inner Resolver) (*BoltVersionCache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt cache %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resolutionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init resolutions bucket")
	}
	return &BoltVersionCache{Inner: inner, DB: db}, nil
}

// Close releases the underlying bbolt database.
func (c *BoltVersionCache) Close() error {
	return c.DB.Close()
}

const (
	cachedUnresolvable    = 'U'
	cachedUnsupportedType = 'S'
)

func (c *BoltVersionCache) lookup(iri string) (kind byte, message string, found bool, err error) {
	err = c.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resolutionsBucket)
		value := bucket.Get([]byte(iri))
		if len(value) == 0 {
			return nil
		}
		found = true
		kind = value[0]
		message = string(value[1:])
		return nil
	})
	return
}

func (c *BoltVersionCache) store(iri string, kind byte, message string) error {
	return c.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resolutionsBucket)
		value := append([]byte{kind}, []byte(message)...)
		return bucket.Put([]byte(iri), value)
	})
}

func (c *BoltVersionCache) Resolve(iri string) (Outcome, error) {
	kind, message, found, err := c.lookup(iri)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "read bolt cache")
	}
	if found {
		switch kind {
		case cachedUnresolvable:
			return UnresolvableOutcome(message), nil
		case cachedUnsupportedType:
			return UnsupportedOutcome(message), nil
		}
	}

	outcome, err := c.Inner.Resolve(iri)
	if err != nil {
		return Outcome{}, err
	}

	switch outcome.Kind {
	case Unresolvable:
		if err := c.store(iri, cachedUnresolvable, outcome.Message); err != nil {
			return Outcome{}, errors.Wrap(err, "write bolt cache")
		}
	case UnsupportedIRIType:
		if err := c.store(iri, cachedUnsupportedType, outcome.Message); err != nil {
			return Outcome{}, errors.Wrap(err, "write bolt cache")
		}
	}
	return outcome, nil
}

var _ Resolver = (*BoltVersionCache)(nil)
