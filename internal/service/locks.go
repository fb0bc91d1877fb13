package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedLock serialises work on the same key with a fixed set of mutexes.
// Distinct keys may share a stripe.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

// lockID locks the stripe of a user id and returns its unlock func.
func (l *stripedLock) lockID(id int64) func() {
	m := &l.stripes[uint64(id)%lockStripes]
	m.Lock()
	return m.Unlock
}

// lockKey locks the stripe of an arbitrary key and returns its unlock func.
func (l *stripedLock) lockKey(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
