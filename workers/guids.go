package workers

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// guidBook is the tracking memory of message guids, keyed by source tx hash.
// A guid is written once and never replaced.
type guidBook struct {
	mu    sync.Mutex
	guids map[string]common.Hash
}

func newGuidBook() *guidBook {
	return &guidBook{guids: make(map[string]common.Hash)}
}

func (b *guidBook) Get(txHash string) (common.Hash, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	guid, ok := b.guids[txHash]
	return guid, ok
}

// Set stores guid unless one is known already, and returns the stored value.
func (b *guidBook) Set(txHash string, guid common.Hash) common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.guids[txHash]; ok {
		return existing
	}
	b.guids[txHash] = guid
	return guid
}

func (b *guidBook) Forget(txHash string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.guids, txHash)
}
