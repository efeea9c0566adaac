package vulka

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestCopyNonoverlappingRejectsOversizedData(t *testing.T) {
	// The size check must fire before any native call, so a handle-less
	// buffer is enough to exercise it.
	b := &BoundBuffer{Buffer: Buffer{Size: 16}}

	err := b.CopyNonoverlapping(make([]byte, 17))
	if err == nil {
		t.Fatal("expected error copying 17 bytes into a 16 byte buffer")
	}
}

func TestIndexSlices(t *testing.T) {
	var _ IndexSourcer = IndexSliceUint16{}
	var _ IndexSourcer = IndexSliceUint32{}

	i16 := IndexSliceUint16{0, 1, 2, 2, 3, 0}
	if i16.IndexCount() != 6 {
		t.Errorf("got count %d, want 6", i16.IndexCount())
	}
	if i16.IndexType() != vk.IndexTypeUint16 {
		t.Errorf("got type %v, want uint16", i16.IndexType())
	}
	if len(i16.Bytes()) != 12 {
		t.Errorf("got %d bytes, want 12", len(i16.Bytes()))
	}

	i32 := IndexSliceUint32{0, 1, 2}
	if i32.IndexCount() != 3 {
		t.Errorf("got count %d, want 3", i32.IndexCount())
	}
	if i32.IndexType() != vk.IndexTypeUint32 {
		t.Errorf("got type %v, want uint32", i32.IndexType())
	}
	if len(i32.Bytes()) != 12 {
		t.Errorf("got %d bytes, want 12", len(i32.Bytes()))
	}
}
