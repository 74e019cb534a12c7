package service

import (
	"sync"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// conflictSet is the in-memory waiting set of stale writes. A target in the
// set is held: the orchestrator skips every operation on it until the
// resolution workflow releases it.
type conflictSet struct {
	mu      sync.RWMutex
	records []models.ConflictRecord
}

func newConflictSet() *conflictSet {
	return &conflictSet{}
}

// hold adds record unless its target is already held and returns the size
// of the set.
func (c *conflictSet) hold(record models.ConflictRecord) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, held := range c.records {
		if held.Ref() == record.Ref() {
			return len(c.records)
		}
	}
	c.records = append(c.records, record)
	return len(c.records)
}

func (c *conflictSet) isHeld(ref models.EntityRef) bool {
	_, ok := c.get(ref)
	return ok
}

func (c *conflictSet) get(ref models.EntityRef) (models.ConflictRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, held := range c.records {
		if held.Ref() == ref {
			return held, true
		}
	}
	return models.ConflictRecord{}, false
}

// release removes the record for ref and returns the size of the set.
func (c *conflictSet) release(ref models.EntityRef) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, held := range c.records {
		if held.Ref() == ref {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	return len(c.records)
}

func (c *conflictSet) list() []models.ConflictRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ConflictRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *conflictSet) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *conflictSet) reset() {
	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()
}
