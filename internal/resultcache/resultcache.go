// Package resultcache bounds the hot set of ensnorm.Process results kept in
// memory, so a service fielding repeated lookups of popular names does not
// re-tokenize and re-post-check them every time.
//
// # Algorithm
//
// S3-FIFO ("Simple, Scalable, FIFO-based cache eviction", Yang et al., 2023)
// uses two FIFO queues and a bounded ghost set:
//
//   - S (small, ~10% of capacity): probationary queue.
//     All new keys are inserted here.
//   - M (main, ~90% of capacity): protected queue.
//     Keys promoted from S after at least one access (freq > 0) land here.
//   - G (ghost): a circular-buffer set of keys recently evicted from S,
//     bounded to 2× sTarget. A key found in G on insert bypasses S and goes
//     directly to M, providing scan resistance comparable to ARC without
//     LRU's per-access lock serialization.
//
// Per-object state: saturating frequency counter (uint8, max 3). Incremented
// on every Get hit; reset to 0 on M promotion.
//
// # Eviction
//
//	S → evict oldest head:
//	  freq > 0 → promote to M tail (reset freq); if M now over target, evict M head.
//	  freq == 0 → remove from memory, add key to G.
//
//	M → evict oldest head: remove from memory. M evictions do NOT add to G.
//
// Unlike internal/speccache, there is no backing store: an evicted entry is
// simply gone and the next lookup recomputes it via ensnorm.Process.
//
// # Sizing
//
//	sTarget  = max(1, capacity/10)
//	mTarget  = capacity − sTarget
//	ghostCap = 2 × sTarget   (min 4)
package resultcache

import (
	"container/list"
	"sync"

	"ensnorm"
)

// entry holds the in-memory state for a single cached Process result.
type entry struct {
	value ensnorm.Result
	freq  uint8         // saturating counter in [0, 3]
	elem  *list.Element // back-pointer into sQueue or mQueue
	inM   bool          // true → lives in mQueue, false → sQueue
}

// Cache bounds the number of ensnorm.Result values held in memory, keyed by
// the original input string and the ProcessOptions used to compute it.
type Cache struct {
	mu sync.Mutex

	capacity int
	sTarget  int
	ghostCap int

	entries map[string]*entry
	sQueue  *list.List
	mQueue  *list.List

	ghostBuf   []string
	ghostSet   map[string]struct{}
	ghostHead  int
	ghostCount int

	hits   uint64
	misses uint64
}

// New returns a Cache bounding memory to capacity entries. Values below 2
// are clamped to 2.
func New(capacity int) *Cache {
	if capacity < 2 {
		capacity = 2
	}
	sTarget := capacity / 10
	if sTarget < 1 {
		sTarget = 1
	}
	ghostCap := 2 * sTarget
	if ghostCap < 4 {
		ghostCap = 4
	}
	return &Cache{
		capacity: capacity,
		sTarget:  sTarget,
		ghostCap: ghostCap,
		entries:  make(map[string]*entry, capacity),
		sQueue:   list.New(),
		mQueue:   list.New(),
		ghostBuf: make([]string, ghostCap),
		ghostSet: make(map[string]struct{}, ghostCap),
	}
}

// key combines the input string with the requested views so that a
// Process(s, {Normalize:true}) lookup never returns a result missing
// Tokens that a later Process(s, {Tokenize:true}) call needs.
func key(input string, opts ensnorm.ProcessOptions) string {
	b := make([]byte, 0, len(input)+6)
	b = append(b, input...)
	b = append(b, '\x00')
	flags := [5]bool{opts.Normalize, opts.Beautify, opts.Tokenize, opts.Transformations, opts.Cure}
	for _, f := range flags {
		if f {
			b = append(b, '1')
		} else {
			b = append(b, '0')
		}
	}
	return string(b)
}

// Get returns the cached Result for (input, opts), if present.
func (c *Cache) Get(input string, opts ensnorm.ProcessOptions) (ensnorm.Result, bool) {
	k := key(input, opts)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		c.misses++
		return ensnorm.Result{}, false
	}
	if e.freq < 3 {
		e.freq++
	}
	c.hits++
	return e.value, true
}

// Put stores the Result for (input, opts), evicting per the S3-FIFO policy
// if the cache is at capacity.
func (c *Cache) Put(input string, opts ensnorm.ProcessOptions, value ensnorm.Result) {
	k := key(input, opts)
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[k]; ok {
		e.value = value
		return
	}

	inM := c.ghostContains(k)
	var elem *list.Element
	if inM {
		elem = c.mQueue.PushBack(k)
	} else {
		elem = c.sQueue.PushBack(k)
	}
	c.entries[k] = &entry{value: value, elem: elem, inM: inM}

	for c.sQueue.Len()+c.mQueue.Len() > c.capacity {
		c.evictOne()
	}
}

// HitRate returns hits/(hits+misses), or 0 if there have been no lookups.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Stats returns the raw hit/miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) evictOne() {
	if c.sQueue.Len() > 0 {
		c.evictFromS()
		return
	}
	c.evictFromM()
}

func (c *Cache) evictFromS() {
	front := c.sQueue.Front()
	if front == nil {
		return
	}
	k, ok := front.Value.(string)
	if !ok {
		c.sQueue.Remove(front)
		return
	}
	c.sQueue.Remove(front)

	e, ok := c.entries[k]
	if !ok {
		return
	}

	if e.freq > 0 {
		e.freq = 0
		e.inM = true
		e.elem = c.mQueue.PushBack(k)
		mTarget := c.capacity - c.sTarget
		if c.mQueue.Len() > mTarget {
			c.evictFromM()
		}
	} else {
		delete(c.entries, k)
		c.ghostAdd(k)
	}
}

func (c *Cache) evictFromM() {
	front := c.mQueue.Front()
	if front == nil {
		return
	}
	k, ok := front.Value.(string)
	if !ok {
		c.mQueue.Remove(front)
		return
	}
	c.mQueue.Remove(front)
	delete(c.entries, k)
}

func (c *Cache) ghostContains(key string) bool {
	_, ok := c.ghostSet[key]
	return ok
}

func (c *Cache) ghostAdd(key string) {
	if _, exists := c.ghostSet[key]; exists {
		return
	}
	if c.ghostCount == c.ghostCap {
		oldest := c.ghostBuf[c.ghostHead]
		delete(c.ghostSet, oldest)
		c.ghostHead = (c.ghostHead + 1) % c.ghostCap
		c.ghostCount--
	}
	writeIdx := (c.ghostHead + c.ghostCount) % c.ghostCap
	c.ghostBuf[writeIdx] = key
	c.ghostSet[key] = struct{}{}
	c.ghostCount++
}
