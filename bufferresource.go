package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// BufferResource is a buffer sub-allocated from a BufferResourcePool, for
// example a vertex buffer, index buffer or UBO. It owns the buffer handle and
// its slice of the pool, but not the pool memory itself.
type BufferResource struct {
	Buffer
	ResourcePool    *BufferResourcePool
	Allocation      *Allocation
	StagingResource *BufferResource
}

// VKMappedMemoryRange describes the resource's slice of the pool memory, for
// use with vk.FlushMappedMemoryRanges when the pool is not host coherent.
func (r *BufferResource) VKMappedMemoryRange() vk.MappedMemoryRange {
	return vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: r.ResourcePool.Memory.VKDeviceMemory,
		Offset: vk.DeviceSize(r.Allocation.Offset),
		Size:   vk.DeviceSize(r.Allocation.Size),
	}
}

// RequiresStaging reports whether the resource lives in device-local memory
// and must be populated through a staging resource.
func (r *BufferResource) RequiresStaging() bool {
	return r.ResourcePool.NeedsStaging
}

// AllocateStagingResource allocates a transfer-source buffer of matching size
// out of the staging pool. The caller frees it once the copy has executed.
func (r *BufferResource) AllocateStagingResource() error {
	if !r.ResourcePool.NeedsStaging {
		return errors.New("resource does not require staging")
	}
	stagingPool := r.ResourcePool.ResourceManager.GetStagingPool()
	if stagingPool == nil {
		return errors.Newf("no %q pool exists; create one before staging resources", StagingPoolName)
	}
	var err error
	r.StagingResource, err = stagingPool.AllocateBuffer(r.Buffer.Size, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	return err
}

func (r *BufferResource) FreeStagingResource() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
}

// CmdCopyBufferFromStagedResource records a copy from the resource's staging
// buffer into the resource itself.
func (c *CommandBuffer) CmdCopyBufferFromStagedResource(resource *BufferResource) error {
	if resource.StagingResource == nil {
		return errors.New("no staging resource has been allocated")
	}
	vk.CmdCopyBuffer(c.VKCommandBuffer, resource.StagingResource.VKBuffer, resource.VKBuffer, 1, []vk.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vk.DeviceSize(resource.Buffer.Size),
	}})
	return nil
}

// Bytes returns the resource's slice of the mapped pool memory, or nil when
// the pool is device local or unmapped.
func (r *BufferResource) Bytes() []byte {
	if r.RequiresStaging() {
		return nil
	}
	if r.ResourcePool.Memory.Ptr == nil {
		return nil
	}
	const m = 0x7fffffff
	s := r.Allocation.Offset
	e := r.Allocation.Offset + r.Allocation.Size
	return (*[m]byte)(r.ResourcePool.Memory.Ptr)[s:e]
}

func (r *BufferResource) String() string {
	return r.Buffer.String()
}

func (r *BufferResource) Destroy() {
	r.Free()
}

// Free returns the resource's space to the pool and destroys the buffer,
// along with any staging resource still attached.
func (r *BufferResource) Free() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
	if r.Allocation != nil {
		r.ResourcePool.Allocator.Free(r.Allocation)
		r.Allocation = nil
	}
	if r.Buffer.VKBuffer != vk.NullBuffer {
		r.Buffer.Destroy()
		r.Buffer.VKBuffer = vk.NullBuffer
	}
}
