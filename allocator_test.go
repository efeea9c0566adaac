package vulka

import (
	"testing"
)

func TestAlign(t *testing.T) {
	if makeAlignUp(12, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(10, 3) != 12 {
		t.Fail()
	}
}

func TestAllocator(t *testing.T) {

	a := LinearAllocator{Size: 1024}

	ra := a.Allocate(2048, 1)
	if ra != nil {
		t.Error("allocation larger than the block should fail")
	}

	fa := a.Allocate(512, 1)
	if fa == nil {
		t.Error("failed 2nd allocation")
	}

	ra = a.Allocate(768, 1)
	if ra != nil {
		t.Error("3rd allocation should not fit")
	}

	k := a.Allocate(500, 1)
	if k == nil {
		t.Error("failed 4th allocation")
	}

	ra = a.Allocate(50, 1)
	if ra != nil {
		t.Error("5th allocation should not fit")
	}

	ra = a.Allocate(5, 1)
	if ra == nil {
		t.Error("failed 6th allocation")
	}

	ra = a.Allocate(20, 1)
	if ra != nil {
		t.Error("7th allocation should not fit")
	}

	a.Free(k)
	ra = a.Allocate(500, 1)
	if ra == nil {
		t.Error("failed to reuse freed space")
	}

	a.Free(fa)
	ra = a.Allocate(20, 1)
	if ra == nil {
		t.Error("failed to allocate at head of freed block")
	}
	if ra.Offset != 0 {
		t.Errorf("expected head allocation at offset 0, got %d", ra.Offset)
	}

	ra = a.Allocate(40, 1)
	if ra == nil {
		t.Error("failed 10th allocation")
	}

	ra = a.Allocate(12, 1)
	if ra == nil {
		t.Error("failed 11th allocation")
	}
	ra = a.Allocate(500, 1)
	if ra != nil {
		t.Error("12th allocation should not fit")
	}
	ra = a.Allocate(5, 1)
	if ra == nil {
		t.Error("failed 13th allocation")
	}
}

func TestAllocatorAlignment(t *testing.T) {
	a := LinearAllocator{Size: 256}

	first := a.Allocate(10, 1)
	if first == nil || first.Offset != 0 {
		t.Fatalf("expected first allocation at offset 0, got %v", first)
	}

	second := a.Allocate(16, 64)
	if second == nil {
		t.Fatal("aligned allocation failed")
	}
	if second.Offset%64 != 0 {
		t.Errorf("allocation offset %d not aligned to 64", second.Offset)
	}
}
