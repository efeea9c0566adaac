package vulka

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestFindMemoryType(t *testing.T) {
	types := []vk.MemoryType{
		{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)},
		{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)},
		{PropertyFlags: vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)},
	}

	idx, err := findMemoryType(types, 0b111, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Errorf("got type %d, want 1", idx)
	}

	// The type bits must exclude otherwise matching types.
	idx, err = findMemoryType(types, 0b100, vk.MemoryPropertyHostVisibleBit)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Errorf("got type %d, want 2", idx)
	}

	// Superset matching: device local request must not match host visible.
	_, err = findMemoryType(types, 0b110, vk.MemoryPropertyDeviceLocalBit)
	if err == nil {
		t.Error("expected no matching memory type")
	}
}

func TestClampExtent(t *testing.T) {
	min := vk.Extent2D{Width: 100, Height: 100}
	max := vk.Extent2D{Width: 2000, Height: 2000}

	// When the driver fixes the extent it wins regardless of the request.
	fixed := vk.Extent2D{Width: 800, Height: 600}
	got := clampExtent(fixed, min, max, 1024, 768)
	if got != fixed {
		t.Errorf("got %+v, want driver extent %+v", got, fixed)
	}

	free := vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}

	got = clampExtent(free, min, max, 1024, 768)
	if got.Width != 1024 || got.Height != 768 {
		t.Errorf("got %+v, want requested size", got)
	}

	got = clampExtent(free, min, max, 10, 99999)
	if got.Width != 100 || got.Height != 2000 {
		t.Errorf("got %+v, want clamped to [min, max]", got)
	}
}

func TestIdealImageCount(t *testing.T) {
	if got := idealImageCount(2, 8); got != 3 {
		t.Errorf("got %d, want min+1", got)
	}
	if got := idealImageCount(3, 3); got != 3 {
		t.Errorf("got %d, want capped at max", got)
	}
	// Zero max means the driver imposes no limit.
	if got := idealImageCount(2, 0); got != 3 {
		t.Errorf("got %d, want min+1 with unlimited max", got)
	}
}
