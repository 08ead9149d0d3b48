// Package speccache persists a precomputed binary encoding of a loaded
// ensnorm.Spec in an embedded bbolt database, so a process restart skips
// re-parsing spec.json and re-deriving the NFD closure when the spec content
// and the implementation's cache format have not changed. The emoji trie and
// the emoji-FE0F lookup are not stored; ensnorm.UnmarshalSpec rebuilds them.
//
// Cache invalidation is keyed by the spec content's SHA-256 hash combined
// with ensnorm.CacheVersion (spec.md §6: "cache invalidation keyed by spec
// content hash and implementation version").
package speccache

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log"
	"os"

	bolt "go.etcd.io/bbolt"

	"ensnorm"
)

const bucketName = "spec_cache"

// Load returns the Spec described by the JSON file at specPath, consulting
// (and populating) the bbolt database at dbPath as a binary cache. An empty
// dbPath disables caching: the spec is parsed fresh every call.
func Load(specPath, dbPath string) (*ensnorm.Spec, error) {
	data, err := os.ReadFile(specPath) //nolint:gosec // G703: specPath is a controlled config value, not user input
	if err != nil {
		return nil, fmt.Errorf("speccache: read %s: %w", specPath, err)
	}

	if dbPath == "" {
		return ensnorm.Load(data)
	}

	key := cacheKey(data)

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		log.Printf("[SPECCACHE] open %s: %v (falling back to uncached load)", dbPath, err)
		return ensnorm.Load(data)
	}
	defer db.Close() //nolint:errcheck // best-effort close; cache is advisory

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		log.Printf("[SPECCACHE] create bucket: %v (falling back to uncached load)", err)
		return ensnorm.Load(data)
	}

	var cached []byte
	if err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if v := b.Get(key); v != nil {
			cached = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		log.Printf("[SPECCACHE] read: %v", err)
	}

	if cached != nil {
		spec, err := ensnorm.UnmarshalSpec(cached)
		if err == nil {
			log.Printf("[SPECCACHE] hit: loaded spec from %s", dbPath)
			return spec, nil
		}
		log.Printf("[SPECCACHE] cached entry failed to decode: %v (re-parsing)", err)
	}

	spec, err := ensnorm.Load(data)
	if err != nil {
		return nil, err
	}

	encoded, err := spec.MarshalBinary()
	if err != nil {
		log.Printf("[SPECCACHE] encode: %v (spec loaded, cache not updated)", err)
		return spec, nil
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key, encoded)
	}); err != nil {
		log.Printf("[SPECCACHE] write: %v (spec loaded, cache not updated)", err)
	}

	return spec, nil
}

// cacheKey combines the spec content hash with ensnorm.CacheVersion so a
// structural change to the cached encoding invalidates every prior entry.
func cacheKey(data []byte) []byte {
	sum := sha256.Sum256(data)
	key := make([]byte, len(sum)+4)
	copy(key, sum[:])
	binary.BigEndian.PutUint32(key[len(sum):], uint32(ensnorm.CacheVersion)) //nolint:gosec // version is a small positive constant
	return key
}
