package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ImageResource is an image sub-allocated from an ImageResourcePool. It owns
// the image handle and its slice of the pool, but not the pool memory.
type ImageResource struct {
	Image
	ResourcePool    *ImageResourcePool
	Allocation      *Allocation
	StagingResource *BufferResource

	// The resource owns an exclusive pool created just for it.
	IndividualPool bool
}

// NewImageResourceWithOptions creates an image backed by its own exclusive
// memory allocation rather than a shared pool.
func (r *ResourceManager) NewImageResourceWithOptions(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, sharing vk.SharingMode, mprops vk.MemoryPropertyFlags) (*ImageResource, error) {
	img, err := r.Device.CreateImageWithOptions(extent, format, &CreateImageOptions{
		Tiling:  tiling,
		Usage:   usage,
		Sharing: sharing,
	})
	if err != nil {
		return nil, err
	}

	memory, err := r.Device.AllocateForImage(img, mprops)
	if err != nil {
		img.Destroy()
		return nil, err
	}

	err = vk.Error(vk.BindImageMemory(r.Device.VKDevice, img.VKImage, memory.VKDeviceMemory, 0))
	if err != nil {
		memory.Destroy()
		img.Destroy()
		return nil, err
	}

	pool := &ImageResourcePool{
		Device:           r.Device,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             img.Size,
		Memory:           memory,
		NeedsStaging:     mprops&vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit) != 0,
		ResourceManager:  r,
	}

	return &ImageResource{
		Image:          *img,
		ResourcePool:   pool,
		IndividualPool: true,
	}, nil
}

// RequiresStaging reports whether the image lives in device-local memory and
// must be populated through a staging resource.
func (r *ImageResource) RequiresStaging() bool {
	return r.ResourcePool.NeedsStaging
}

// AllocateStagingResource allocates a transfer-source buffer of matching size
// out of the staging pool. The caller frees it once the copy has executed.
func (r *ImageResource) AllocateStagingResource() error {
	if !r.ResourcePool.NeedsStaging {
		return errors.New("resource does not require staging")
	}
	stagingPool := r.ResourcePool.ResourceManager.GetStagingPool()
	if stagingPool == nil {
		return errors.Newf("no %q pool exists; create one before staging resources", StagingPoolName)
	}
	var err error
	r.StagingResource, err = stagingPool.AllocateBuffer(r.Image.Size, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	return err
}

func (r *ImageResource) FreeStagingResource() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
}

// CmdCopyImageFromStagedResource records a copy from the image's staging
// buffer into the image, which must be in TransferDstOptimal layout.
func (c *CommandBuffer) CmdCopyImageFromStagedResource(resource *ImageResource) error {
	if resource.StagingResource == nil {
		return errors.New("no staging resource has been allocated")
	}
	c.CmdCopyBufferToImage(&resource.StagingResource.Buffer, &resource.Image)
	return nil
}

func (r *ImageResource) Destroy() {
	r.Free()
}

// Free returns the resource's space to the pool and destroys the image. A
// resource with an individual pool destroys the pool as well.
func (r *ImageResource) Free() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
	if r.IndividualPool && r.ResourcePool != nil {
		r.Image.Destroy()
		r.ResourcePool.Destroy()
		r.ResourcePool = nil
		return
	}
	if r.Allocation != nil {
		r.ResourcePool.Allocator.Free(r.Allocation)
		r.Allocation = nil
	}
	r.Image.Destroy()
}
