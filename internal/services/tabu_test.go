package services

import "testing"

func TestTabuListEvictsOldest(t *testing.T) {
	tl := newTabuList(5)
	for i := 1; i <= 6; i++ {
		tl.Push(i)
	}

	if tl.Len() != 5 {
		t.Fatalf("len = %d, want 5", tl.Len())
	}
	if tl.Contains(1) {
		t.Errorf("oldest entry 1 should have been evicted")
	}
	for i := 2; i <= 6; i++ {
		if !tl.Contains(i) {
			t.Errorf("expected %d to be tabu", i)
		}
	}
}

func TestTabuListPartiallyFilled(t *testing.T) {
	tl := newTabuList(3)
	tl.Push(7)

	if !tl.Contains(7) || tl.Contains(0) {
		t.Fatalf("unexpected contents after single push")
	}
}
