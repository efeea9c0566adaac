package vulka

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Buffer wraps a native buffer handle. It owns the handle exclusively; the
// memory backing it is a separate object bound via Bind.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
	Usage    vk.BufferUsageFlagBits
}

func (d *Device) CreateBuffer(sizeInBytes uint64) (*Buffer, error) {
	return d.CreateBufferWithOptions(sizeInBytes, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit), vk.SharingModeExclusive)
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*Buffer, error) {

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: sharing,
	}

	var buffer vk.Buffer
	err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer))
	if err != nil {
		return nil, errors.Wrapf(err, "error creating buffer of %d bytes", sizeInBytes)
	}

	var ret Buffer
	ret.VKBuffer = buffer
	ret.Device = d
	ret.Size = sizeInBytes
	ret.Usage = vk.BufferUsageFlagBits(usage)

	return &ret, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	return memoryRequirements
}

func (b *Buffer) DSInfo(offset int) vk.DescriptorBufferInfo {
	var descriptorBufferInfo = vk.DescriptorBufferInfo{}
	descriptorBufferInfo.Buffer = b.VKBuffer
	descriptorBufferInfo.Offset = vk.DeviceSize(offset)
	descriptorBufferInfo.Range = vk.DeviceSize(b.Size)
	return descriptorBufferInfo
}

func (b *Buffer) AllocationRequirements() *AllocationRequirements {
	memoryRequirements := b.VKMemoryRequirements()
	mr := &memoryRequirements
	mr.Deref()

	return &AllocationRequirements{
		Size:           int(mr.Size),
		Alignment:      int(mr.Alignment),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return vk.Error(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)))
}

func (b *Buffer) String() string {
	return fmt.Sprintf("{ Size: %d }", b.Size)
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}

// BoundBuffer is a buffer together with the device memory dedicated to it.
// Destroying it releases the buffer first, then the memory.
type BoundBuffer struct {
	Buffer
	Memory *DeviceMemory
}

// CreateAndBindBufferAndMemory creates a buffer, allocates memory fitting
// its requirements and binds the two at the given offset.
func (d *Device) CreateAndBindBufferAndMemory(size uint64, offset uint64, usage vk.BufferUsageFlags, mprops vk.MemoryPropertyFlags, sharing vk.SharingMode) (*Buffer, *DeviceMemory, error) {

	buffer, err := d.CreateBufferWithOptions(size, usage, sharing)
	if err != nil {
		return nil, nil, err
	}
	memory, err := d.AllocateForBuffer(buffer, mprops)
	if err != nil {
		buffer.Destroy()
		return nil, nil, err
	}
	err = buffer.Bind(memory, offset)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, nil, err
	}
	return buffer, memory, nil
}

// CreateBoundBuffer creates a buffer with its own exclusive memory.
func (d *Device) CreateBoundBuffer(size uint64, usage vk.BufferUsageFlags, mprops vk.MemoryPropertyFlags) (*BoundBuffer, error) {
	buffer, memory, err := d.CreateAndBindBufferAndMemory(size, 0, usage, mprops, vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}
	return &BoundBuffer{Buffer: *buffer, Memory: memory}, nil
}

// CreateBoundBufferMapped creates a host-visible bound buffer and leaves its
// memory persistently mapped, for data rewritten every frame.
func (d *Device) CreateBoundBufferMapped(size uint64, usage vk.BufferUsageFlags) (*BoundBuffer, error) {
	b, err := d.CreateBoundBuffer(size, usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if _, err := b.Memory.Map(); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// CopyNonoverlapping copies data into the buffer's memory. The destination
// must be at least as large as the source; the size is checked before any
// native call is made.
func (b *BoundBuffer) CopyNonoverlapping(data []byte) error {
	if uint64(len(data)) > b.Size {
		return errors.Newf("copy of %d bytes exceeds buffer size %d", len(data), b.Size)
	}
	if b.Memory.IsMapped() && b.Memory.Ptr != nil {
		copy(ToBytes(b.Memory.Ptr, len(data)), data)
		return nil
	}
	return b.Memory.MapCopyUnmap(data)
}

func (b *BoundBuffer) Destroy() {
	b.Buffer.Destroy()
	if b.Memory != nil {
		if b.Memory.IsMapped() {
			b.Memory.Unmap()
		}
		b.Memory.Destroy()
	}
}
