package vulka

import (
	vk "github.com/vulkan-go/vulkan"
)

// IDestructable is anything which owns a native handle and can release it.
type IDestructable interface {
	Destroy()
}

// ByteSourcer provides the raw bytes of some host-side data.
type ByteSourcer interface {
	Bytes() []byte
}

// VertexSourcer describes vertex data and how the pipeline should read it.
type VertexSourcer interface {
	ByteSourcer
	GetBindingDescription() vk.VertexInputBindingDescription
	GetAttributeDescriptions() []vk.VertexInputAttributeDescription
}

// IndexSourcer describes index data for indexed draws.
type IndexSourcer interface {
	ByteSourcer
	IndexType() vk.IndexType
	IndexCount() int
}

// VertexDescriptor describes vertex layout without carrying the data itself.
type VertexDescriptor interface {
	GetBindingDescription() vk.VertexInputBindingDescription
	GetAttributeDescriptions() []vk.VertexInputAttributeDescription
}
