package indexer

import (
	"reflect"
	"testing"
)

func TestSplitRange(t *testing.T) {
	got, err := SplitRange(100, 105, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{
		{From: 100, To: 101},
		{From: 102, To: 103},
		{From: 104, To: 105},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestSplitRangeSingle(t *testing.T) {
	got, err := SplitRange(5, 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{{From: 5, To: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestSplitRangeInvalid(t *testing.T) {
	if _, err := SplitRange(10, 9, 1); err == nil {
		t.Fatalf("expected error for invalid range")
	}
	if _, err := SplitRange(1, 10, 0); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}

func TestSplitRangeCoversEveryBlock(t *testing.T) {
	ranges, err := SplitRange(1, 1000, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var total uint64
	next := uint64(1)
	for _, r := range ranges {
		if r.From != next {
			t.Fatalf("gap before %+v, expected from %d", r, next)
		}
		if r.Blocks() > 64 {
			t.Fatalf("range too large: %+v", r)
		}
		total += r.Blocks()
		next = r.To + 1
	}
	if total != 1000 {
		t.Fatalf("expected 1000 blocks, got %d", total)
	}
}
