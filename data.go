package vulka

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// IndexSliceUint16 adapts a []uint16 to the IndexSourcer interface.
type IndexSliceUint16 []uint16

func (i IndexSliceUint16) Bytes() []byte {
	size := len(i) * int(unsafe.Sizeof(uint16(0)))
	return ToBytes(unsafe.Pointer(&i[0]), size)
}

func (i IndexSliceUint16) IndexType() vk.IndexType {
	return vk.IndexTypeUint16
}

func (i IndexSliceUint16) IndexCount() int {
	return len(i)
}

// IndexSliceUint32 adapts a []uint32 to the IndexSourcer interface.
type IndexSliceUint32 []uint32

func (i IndexSliceUint32) Bytes() []byte {
	size := len(i) * int(unsafe.Sizeof(uint32(0)))
	return ToBytes(unsafe.Pointer(&i[0]), size)
}

func (i IndexSliceUint32) IndexType() vk.IndexType {
	return vk.IndexTypeUint32
}

func (i IndexSliceUint32) IndexCount() int {
	return len(i)
}
