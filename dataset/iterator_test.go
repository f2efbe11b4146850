package dataset

import (
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gopjrt/dtypes"

	"github.com/Noofbiz/uwset/transform"
)

func iteratorFixture(t *testing.T) *Dataset {
	t.Helper()
	split := filepath.Join(t.TempDir(), "survey1")
	classes := []string{"posidonia", "sand"}
	writeSplit(t, split, classes, []fixtureRow{
		{label: "posidonia", rov: 1, img: 1, frames: 1},
		{label: "sand", rov: 1, img: 2, frames: 1},
		{label: "sand", rov: 1, img: 3, frames: 1},
	})

	ds, err := New(Config{
		Splits:   []string{split},
		Classes:  classes,
		Mode:     ModeTrain,
		Rand:     seededRand(),
		Pipeline: transform.Eval(4),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ds
}

func drainEpoch(t *testing.T, it *Iterator) []int32 {
	t.Helper()
	var got []int32
	for {
		spec, inputs, labels, err := it.Yield()
		if errors.Is(err, io.EOF) {
			return got
		}
		if err != nil {
			t.Fatalf("Yield failed: %v", err)
		}
		if spec == nil {
			t.Fatalf("Yield returned a nil spec")
		}
		if len(inputs) != 1 || len(labels) != 1 {
			t.Fatalf("Yield returned %d inputs and %d labels, want 1 and 1", len(inputs), len(labels))
		}
		want := shapes.Make(dtypes.Float32, 4, 4, 3)
		if !inputs[0].Shape().Equal(want) {
			t.Fatalf("yielded input shape = %s, want %s", inputs[0].Shape(), want)
		}
		got = append(got, tensors.ToScalar[int32](labels[0]))
	}
}

func TestIteratorEpoch(t *testing.T) {
	ds := iteratorFixture(t)
	it := NewIterator(ds, nil)

	first := drainEpoch(t, it)
	if len(first) != ds.Len() {
		t.Fatalf("epoch yielded %d items, want %d", len(first), ds.Len())
	}

	counts := make(map[int32]int)
	for _, label := range first {
		counts[label]++
	}
	// Oversampling balances both classes to the larger count.
	if counts[0] != 2 || counts[1] != 2 {
		t.Fatalf("label counts = %v, want 2 of each class", counts)
	}

	// Exhausted until Reset.
	if _, _, _, err := it.Yield(); !errors.Is(err, io.EOF) {
		t.Fatalf("Yield after the epoch = %v, want io.EOF", err)
	}
	it.Reset()
	second := drainEpoch(t, it)
	if len(second) != ds.Len() {
		t.Fatalf("second epoch yielded %d items, want %d", len(second), ds.Len())
	}
}

func TestIteratorShuffleIsSeedDriven(t *testing.T) {
	ds := iteratorFixture(t)

	run := func(seed int64) []int32 {
		return drainEpoch(t, NewIterator(ds, rand.New(rand.NewSource(seed))))
	}
	a := run(11)
	b := run(11)
	if len(a) != len(b) {
		t.Fatalf("epochs yielded %d and %d items", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed visited labels differently: %v vs %v", a, b)
		}
	}
}

func TestIteratorName(t *testing.T) {
	ds := iteratorFixture(t)
	if got := NewIterator(ds, nil).Name(); got != "uwset-train" {
		t.Fatalf("Name() = %q, want uwset-train", got)
	}
}
