package worker

import "testing"

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	batches := Chunk(items, 3)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 3 || len(batches[1]) != 3 || len(batches[2]) != 1 {
		t.Errorf("unexpected batch sizes: %d %d %d", len(batches[0]), len(batches[1]), len(batches[2]))
	}
	if batches[2][0] != 7 {
		t.Errorf("order not preserved: last element %d", batches[2][0])
	}
}

func TestChunkExact(t *testing.T) {
	batches := Chunk([]string{"a", "b", "c", "d"}, 2)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
}

func TestChunkEdgeCases(t *testing.T) {
	if got := Chunk([]int(nil), 3); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}

	batches := Chunk([]int{1, 2, 3}, 0)
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Errorf("non-positive size should yield one batch, got %v", batches)
	}
}
