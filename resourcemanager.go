package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// StagingPoolName is the name of the buffer pool used to stage uploads into
// device-local resources.
const StagingPoolName = "staging"

var errInsufficientPoolSpace = errors.New("insufficient space in resource pool")

// ResourceManager owns named pools of device memory. Vulkan limits the number
// of live memory allocations an application may hold, so buffers and images
// are sub-allocated out of a small number of large blocks instead of each
// getting their own allocation.
type ResourceManager struct {
	Device      *Device
	bufferPools map[string]*BufferResourcePool
	imagePools  map[string]*ImageResourcePool
}

func (d *Device) CreateResourceManager() *ResourceManager {
	return &ResourceManager{
		Device:      d,
		bufferPools: make(map[string]*BufferResourcePool),
		imagePools:  make(map[string]*ImageResourcePool),
	}
}

// BufferResourcePool is one block of device memory that buffers are
// sub-allocated from.
type BufferResourcePool struct {
	Device           *Device
	Name             string
	Usage            vk.BufferUsageFlags
	Sharing          vk.SharingMode
	MemoryProperties vk.MemoryPropertyFlags
	Size             uint64
	Allocator        IAllocator
	Memory           *DeviceMemory
	NeedsStaging     bool
	ResourceManager  *ResourceManager
}

// ImageResourcePool is one block of device memory that images are
// sub-allocated from.
type ImageResourcePool struct {
	Device           *Device
	Name             string
	Usage            vk.ImageUsageFlags
	Sharing          vk.SharingMode
	MemoryProperties vk.MemoryPropertyFlags
	Size             uint64
	Allocator        IAllocator
	Memory           *DeviceMemory
	NeedsStaging     bool
	ResourceManager  *ResourceManager
}

func (r *ResourceManager) GetStagingPool() *BufferResourcePool {
	return r.bufferPools[StagingPoolName]
}

func (r *ResourceManager) HasStagingPool() bool {
	return r.bufferPools[StagingPoolName] != nil
}

// AllocateStagingPool creates the host-visible pool that device-local
// resources stage their uploads through. The pool memory is left mapped for
// the lifetime of the pool.
func (r *ResourceManager) AllocateStagingPool(size uint64) (*BufferResourcePool, error) {
	p, err := r.AllocateBufferPoolWithOptions(StagingPoolName, size,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}
	if _, err := p.Memory.Map(); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (r *ResourceManager) AllocateHostVertexAndIndexBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit),
		vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateDeviceVertexAndIndexBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit),
		vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateBufferPoolWithOptions(name string, size uint64, mprops vk.MemoryPropertyFlags, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*BufferResourcePool, error) {
	// TODO query the physical device for integrated GPUs whose device-local
	// heap is host visible, which do not need staging.
	needsStaging := mprops&vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit) != 0
	if needsStaging {
		usage |= vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	}

	p := &BufferResourcePool{
		Device:           r.Device,
		Name:             name,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             size,
		Allocator:        &LinearAllocator{Size: size},
		NeedsStaging:     needsStaging,
		ResourceManager:  r,
	}

	// A throwaway buffer with the pool's usage tells us which memory types
	// the real allocations will be compatible with.
	probe, err := r.Device.CreateBufferWithOptions(size, usage, sharing)
	if err != nil {
		return nil, err
	}
	defer probe.Destroy()

	mr := probe.VKMemoryRequirements()
	mr.Deref()

	memory, err := r.Device.Allocate(int(size), mr.MemoryTypeBits, mprops)
	if err != nil {
		return nil, err
	}
	p.Memory = memory

	r.bufferPools[name] = p
	return p, nil
}

func (r *ResourceManager) AllocateDeviceTexturePool(name string, size uint64) (*ImageResourcePool, error) {
	return r.AllocateImagePoolWithOptions(name, size,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateImagePoolWithOptions(name string, size uint64, mprops vk.MemoryPropertyFlags, usage vk.ImageUsageFlags, sharing vk.SharingMode) (*ImageResourcePool, error) {
	needsStaging := mprops&vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit) != 0
	if needsStaging {
		usage |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	}

	p := &ImageResourcePool{
		Device:           r.Device,
		Name:             name,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             size,
		Allocator:        &LinearAllocator{Size: size},
		NeedsStaging:     needsStaging,
		ResourceManager:  r,
	}

	probe, err := r.Device.CreateImageWithOptions(vk.Extent2D{Width: 16, Height: 16}, vk.FormatR8g8b8a8Unorm, &CreateImageOptions{
		Tiling:  vk.ImageTilingOptimal,
		Usage:   usage,
		Sharing: sharing,
	})
	if err != nil {
		return nil, err
	}
	defer probe.Destroy()

	mr := probe.VKMemoryRequirements()
	mr.Deref()

	memory, err := r.Device.Allocate(int(size), mr.MemoryTypeBits, mprops)
	if err != nil {
		return nil, err
	}
	p.Memory = memory

	r.imagePools[name] = p
	return p, nil
}

func (r *ResourceManager) BufferPool(name string) *BufferResourcePool {
	return r.bufferPools[name]
}

func (r *ResourceManager) ImagePool(name string) *ImageResourcePool {
	return r.imagePools[name]
}

func (r *ResourceManager) Destroy() {
	for _, p := range r.bufferPools {
		p.Destroy()
	}
	for _, p := range r.imagePools {
		p.Destroy()
	}
}

// AllocateFor allocates a buffer resource sized for the data, with the usage
// implied by the data's type.
func (p *BufferResourcePool) AllocateFor(src ByteSourcer) (*BufferResource, error) {
	switch s := src.(type) {
	case VertexSourcer:
		return p.AllocateBuffer(uint64(len(s.Bytes())), vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	case IndexSourcer:
		return p.AllocateBuffer(uint64(len(s.Bytes())), vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	default:
		return nil, errors.Newf("cannot infer buffer usage for %T", src)
	}
}

func (p *BufferResourcePool) AllocateBuffer(size uint64, usage vk.BufferUsageFlags) (*BufferResource, error) {
	buffer, err := p.Device.CreateBufferWithOptions(size, usage, p.Sharing)
	if err != nil {
		return nil, err
	}

	mr := buffer.VKMemoryRequirements()
	mr.Deref()

	allocation := p.Allocator.Allocate(uint64(mr.Size), uint64(mr.Alignment))
	if allocation == nil {
		buffer.Destroy()
		return nil, errors.Wrapf(errInsufficientPoolSpace, "pool %q", p.Name)
	}

	if err := buffer.Bind(p.Memory, allocation.Offset); err != nil {
		p.Allocator.Free(allocation)
		buffer.Destroy()
		return nil, err
	}

	ret := &BufferResource{
		Buffer:       *buffer,
		ResourcePool: p,
		Allocation:   allocation,
	}
	return ret, nil
}

func (p *BufferResourcePool) Destroy() {
	if p.Memory != nil {
		if p.Memory.IsMapped() {
			p.Memory.Unmap()
		}
		p.Memory.Destroy()
		p.Memory = nil
	}
	p.Allocator = nil
	if p.ResourceManager != nil {
		delete(p.ResourceManager.bufferPools, p.Name)
	}
}

func (p *ImageResourcePool) AllocateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags) (*ImageResource, error) {
	img, err := p.Device.CreateImageWithOptions(extent, format, &CreateImageOptions{
		Tiling:  tiling,
		Usage:   usage,
		Sharing: p.Sharing,
	})
	if err != nil {
		return nil, err
	}

	mr := img.VKMemoryRequirements()
	mr.Deref()

	allocation := p.Allocator.Allocate(uint64(mr.Size), uint64(mr.Alignment))
	if allocation == nil {
		img.Destroy()
		return nil, errors.Wrapf(errInsufficientPoolSpace, "pool %q", p.Name)
	}

	err = vk.Error(vk.BindImageMemory(p.Device.VKDevice, img.VKImage, p.Memory.VKDeviceMemory, vk.DeviceSize(allocation.Offset)))
	if err != nil {
		p.Allocator.Free(allocation)
		img.Destroy()
		return nil, err
	}

	ret := &ImageResource{
		Image:        *img,
		ResourcePool: p,
		Allocation:   allocation,
	}
	return ret, nil
}

func (p *ImageResourcePool) Destroy() {
	if p.Memory != nil {
		p.Memory.Destroy()
		p.Memory = nil
	}
	p.Allocator = nil
	if p.ResourceManager != nil {
		delete(p.ResourceManager.imagePools, p.Name)
	}
}
