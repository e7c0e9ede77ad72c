package ledger

import "sync"

// keyedMutex serializes operations per string key. Settlement creation is
// serialized per recipient and refund reversal per order line; operations
// on different keys proceed in parallel.
//
// Entries are never evicted; the key space (recipients and refunded lines
// with in-flight operations) is small and bounded per process lifetime.
type keyedMutex struct {
	mu sync.Map // key -> *sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
