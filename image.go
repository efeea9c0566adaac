package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Image wraps a native image handle. Images obtained from a swapchain are
// owned by the presentation engine; destroying their wrapper is a no-op on
// the handle.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
	Extent   vk.Extent2D
	Size     uint64

	swapchainOwned bool
}

// IsSwapchainImage reports whether the image belongs to a swapchain.
func (i *Image) IsSwapchainImage() bool {
	return i.swapchainOwned
}

func (i *Image) VKMemoryRequirements() vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memRequirements)
	return memRequirements
}

type CreateImageOptions struct {
	Tiling  vk.ImageTiling
	Usage   vk.ImageUsageFlags
	Sharing vk.SharingMode
	Samples vk.SampleCountFlagBits
}

func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags) (*Image, error) {
	return d.CreateImageWithOptions(extent, format, &CreateImageOptions{
		Tiling:  tiling,
		Usage:   usage,
		Sharing: vk.SharingModeExclusive,
		Samples: vk.SampleCount1Bit,
	})
}

func (d *Device) CreateImageWithOptions(extent vk.Extent2D, format vk.Format, options *CreateImageOptions) (*Image, error) {
	samples := options.Samples
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}

	var imageInfo = vk.ImageCreateInfo{}
	imageInfo.SType = vk.StructureTypeImageCreateInfo
	imageInfo.ImageType = vk.ImageType2d
	imageInfo.Extent.Width = extent.Width
	imageInfo.Extent.Height = extent.Height
	imageInfo.Extent.Depth = 1
	imageInfo.MipLevels = 1
	imageInfo.ArrayLayers = 1
	imageInfo.Format = format
	imageInfo.Tiling = options.Tiling
	imageInfo.InitialLayout = vk.ImageLayoutUndefined
	imageInfo.Usage = options.Usage
	imageInfo.Samples = samples
	imageInfo.SharingMode = options.Sharing

	var image vk.Image

	err := vk.Error(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image))
	if err != nil {
		return nil, errors.Wrapf(err, "error creating %dx%d image", extent.Width, extent.Height)
	}

	ret := &Image{
		Device:   d,
		VKImage:  image,
		VKFormat: format,
		Extent:   extent,
	}

	mr := ret.VKMemoryRequirements()
	mr.Deref()
	ret.Size = uint64(mr.Size)

	return ret, nil
}

// BoundImage is an image together with the device memory dedicated to it.
type BoundImage struct {
	Image
	Memory *DeviceMemory
}

func (d *Device) CreateBoundImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, props vk.MemoryPropertyFlags) (*BoundImage, error) {
	i, err := d.CreateImage(extent, format, tiling, usage)
	if err != nil {
		return nil, err
	}

	mem, err := d.AllocateForImage(i, props)
	if err != nil {
		i.Destroy()
		return nil, err
	}

	err = vk.Error(vk.BindImageMemory(d.VKDevice, i.VKImage, mem.VKDeviceMemory, 0))
	if err != nil {
		mem.Destroy()
		i.Destroy()
		return nil, err
	}

	return &BoundImage{Image: *i, Memory: mem}, nil
}

func (b *BoundImage) Destroy() {
	b.Image.Destroy()
	if b.Memory != nil {
		b.Memory.Destroy()
	}
}

func (i *Image) Destroy() {
	if i.swapchainOwned {
		return
	}
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
}
