package dataset

import (
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Iterator walks a Dataset one item per step and implements gomlx's
// train.Dataset, so the index can feed training and evaluation loops
// directly. The epoch cursor lives here, keeping the Dataset itself
// immutable. Yield is mutex-guarded so gomlx may call it from parallel
// goroutines.
type Iterator struct {
	ds *Dataset

	mu    sync.Mutex
	next  int
	order []int
	rng   *rand.Rand
}

// NewIterator returns an epoch iterator over ds. With a non-nil rng the
// visit order reshuffles on every Reset; with nil it stays the index order.
func NewIterator(ds *Dataset, rng *rand.Rand) *Iterator {
	it := &Iterator{
		ds:    ds,
		order: make([]int, ds.Len()),
		rng:   rng,
	}
	for i := range it.order {
		it.order[i] = i
	}
	it.shuffle()
	return it
}

// Name implements train.Dataset.
func (it *Iterator) Name() string {
	return fmt.Sprintf("uwset-%s", it.ds.Mode())
}

// Reset implements train.Dataset, starting the next epoch.
func (it *Iterator) Reset() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.next = 0
	it.shuffle()
}

func (it *Iterator) shuffle() {
	if it.rng == nil {
		return
	}
	it.rng.Shuffle(len(it.order), func(i, j int) {
		it.order[i], it.order[j] = it.order[j], it.order[i]
	})
}

// Yield implements train.Dataset. It returns one item per call: the input
// tensor and the label index as a scalar int32 tensor, then io.EOF once the
// epoch is exhausted.
func (it *Iterator) Yield() (spec any, inputs, labels []*tensors.Tensor, err error) {
	it.mu.Lock()
	if it.next >= len(it.order) {
		it.mu.Unlock()
		return nil, nil, nil, io.EOF
	}
	index := it.order[it.next]
	it.next++
	it.mu.Unlock()

	input, label, err := it.ds.Item(index)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to yield item %d: %w", index, err)
	}
	return it.ds, []*tensors.Tensor{input}, []*tensors.Tensor{tensors.FromScalar(label)}, nil
}
