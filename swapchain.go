package vulka

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrOutOfDate reports that the swapchain no longer matches its surface and
// must be recreated before any further acquire or present.
var ErrOutOfDate = errors.New("swapchain out of date")

// Swapchain wraps a native swapchain. A swapchain never resizes in place:
// resizing means creating a replacement chained through OldSwapchain and
// destroying this one.
type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain

	images []*Image
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// Images returns the images backing the swapchain. The driver may have
// created more than the requested minimum; the enumerated count is
// authoritative. The list is enumerated once and cached, and the images are
// marked as swapchain-owned so wrapper destroys never touch their handles.
func (s *Swapchain) Images() ([]*Image, error) {
	if s.images != nil {
		return s.images, nil
	}

	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, err
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))
	if err != nil {
		return nil, err
	}

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{
			Device:         s.Device,
			VKImage:        swapchainImages[i],
			VKFormat:       s.Format,
			Extent:         s.Extent,
			swapchainOwned: true,
		}
	}

	s.images = ret
	return ret, nil
}

// AcquireNextImage asks the presentation engine for the next image to render
// into. The semaphore (or fence, or both) signals when the image is actually
// ready. A suboptimal-but-usable surface returns (index, true, nil); an
// unusable one returns ErrOutOfDate.
func (s *Swapchain) AcquireNextImage(timeout time.Duration, semaphore *Semaphore, fence *Fence) (uint32, bool, error) {
	var vkSemaphore vk.Semaphore = vk.NullSemaphore
	if semaphore != nil {
		vkSemaphore = semaphore.VKSemaphore
	}
	var vkFence vk.Fence = vk.NullFence
	if fence != nil {
		vkFence = fence.VKFence
	}

	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, uint64(timeout.Nanoseconds()), vkSemaphore, vkFence, &imageIndex)

	switch res {
	case vk.Success:
		return imageIndex, false, nil
	case vk.Suboptimal:
		return imageIndex, true, nil
	case vk.ErrorOutOfDate:
		return 0, false, ErrOutOfDate
	default:
		return 0, false, errors.Wrap(vk.Error(res), "error acquiring swapchain image")
	}
}

type CreateSwapchainOptions struct {
	// OldSwapchain chains the replaced swapchain so in-flight presents can
	// complete. The old swapchain is still destroyed by its owner.
	OldSwapchain *Swapchain

	// ActualSize is the framebuffer size to request when the driver leaves
	// the extent up to the application.
	ActualSize vk.Extent2D

	// DesiredNumSwapchainImages defaults to one more than the surface
	// minimum, capped by the surface maximum.
	DesiredNumSwapchainImages int

	// DesiredFormat defaults to B8G8R8A8 unorm when the surface offers it.
	DesiredFormat vk.Format

	// ImageUsage defaults to color attachment plus transfer destination.
	ImageUsage vk.ImageUsageFlags
}

func (p *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {

	modes, err := p.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}

	presentMode := vk.PresentModeFifo
	m := modes.Filter(vk.PresentModeMailbox)
	if len(m) > 0 {
		presentMode = m[0]
	}

	formats, err := p.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}

	desiredFormat := vk.FormatB8g8r8a8Unorm
	if options != nil && options.DesiredFormat != vk.FormatUndefined {
		desiredFormat = options.DesiredFormat
	}

	format := formats[0]
	format.Deref()
	formats.Filter(func(f vk.SurfaceFormat) bool {
		if f.Format == desiredFormat {
			format = f
			return true
		}
		return false
	})

	var actualSize vk.Extent2D
	if options != nil {
		actualSize = options.ActualSize
	}

	swapchainSize, err := p.PhysicalDevice.SurfaceExtentClamped(surface, actualSize.Width, actualSize.Height)
	if err != nil {
		return nil, err
	}

	desiredSwapchainImages := 0
	if options != nil {
		desiredSwapchainImages = options.DesiredNumSwapchainImages
	}
	if desiredSwapchainImages == 0 {
		desiredSwapchainImages, err = p.PhysicalDevice.IdealSwapchainImageCount(surface)
		if err != nil {
			return nil, err
		}
	}

	caps, err := p.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	imageUsage := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit)
	if options != nil && options.ImageUsage != 0 {
		imageUsage = options.ImageUsage
	}

	var swapchain vk.Swapchain

	createInfo := &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    uint32(desiredSwapchainImages),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      swapchainSize,
		PresentMode:      presentMode,
		ImageUsage:       imageUsage,
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options != nil && options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	if graphicsQueue.QueueFamily.Index != presentQueue.QueueFamily.Index {
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(graphicsQueue.QueueFamily.Index), uint32(presentQueue.QueueFamily.Index)}
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
	} else {
		createInfo.QueueFamilyIndexCount = 0
		createInfo.PQueueFamilyIndices = nil
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	err = vk.Error(vk.CreateSwapchain(p.VKDevice, createInfo, nil, &swapchain))
	if err != nil {
		return nil, errors.Wrap(err, "error creating swapchain")
	}

	var ret Swapchain
	ret.VKSwapchain = swapchain
	ret.Device = p
	ret.Extent = swapchainSize
	ret.Format = format.Format

	return &ret, nil
}
