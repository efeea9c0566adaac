package vulka

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Device is a logical device. It owns the queue-family objects it was created
// over and is the parent of every resource wrapper in this package.
type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
	QueueFamilies  QueueFamilySlice
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() error {
	return vk.Error(vk.DeviceWaitIdle(d.VKDevice))
}

// GetQueue returns the first queue of the given family.
func (d *Device) GetQueue(qf *QueueFamily) (*Queue, error) {
	return qf.Queue(0)
}

// FirstQueue returns the first queue of the first family on this device
// matching all the given flags.
func (d *Device) FirstQueue(flags vk.QueueFlags) (*Queue, error) {
	for _, qf := range d.QueueFamilies {
		if qf.VKQueueFamilyProperties.QueueFlags&flags == flags {
			return qf.Queue(0)
		}
	}
	return nil, errors.Newf("no queue family on device matches flags 0x%x", flags)
}

// FirstPresentQueue returns the first queue of the first family on this
// device able to present to the surface.
func (d *Device) FirstPresentQueue(surface vk.Surface) (*Queue, error) {
	for _, qf := range d.QueueFamilies {
		if qf.SupportsPresent(surface) {
			return qf.Queue(0)
		}
	}
	return nil, errors.New("no queue family on device can present to surface")
}

// WaitForFences blocks until the fences signal, or all of them when
// waitForAll is set, or the timeout elapses.
func (d *Device) WaitForFences(waitForAll bool, ts time.Duration, fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	var wait vk.Bool32
	if waitForAll {
		wait = vk.True
	} else {
		wait = vk.False
	}

	return vk.Error(vk.WaitForFences(d.VKDevice, uint32(len(fences)), f, wait, uint64(ts.Nanoseconds())))
}

// ResetFences returns the fences to the unsignaled state.
func (d *Device) ResetFences(fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}
	return vk.Error(vk.ResetFences(d.VKDevice, uint32(len(fences)), f))
}

type AllocationRequirements struct {
	Size           int
	Alignment      int
	MemoryTypeBits uint32
}

func (d *Device) AllocateForBuffer(b *Buffer, memoryProperties vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	ar := b.AllocationRequirements()
	mem, err := d.Allocate(ar.Size, ar.MemoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}
	return mem, err
}

func (d *Device) AllocateForImage(img *Image, memoryProperties vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	mr := img.VKMemoryRequirements()
	mr.Deref()
	return d.Allocate(int(mr.Size), mr.MemoryTypeBits, memoryProperties)
}

// Allocate allocates device memory of the given size from the first memory
// type compatible with memoryTypeBits that has the requested properties.
func (d *Device) Allocate(sizeInBytes int, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlags) (*DeviceMemory, error) {

	var allocateInfo = vk.MemoryAllocateInfo{}
	allocateInfo.SType = vk.StructureTypeMemoryAllocateInfo
	allocateInfo.AllocationSize = vk.DeviceSize(sizeInBytes)

	var err error

	allocateInfo.MemoryTypeIndex, err = d.PhysicalDevice.FindMemoryType(
		memoryTypeBits,
		vk.MemoryPropertyFlagBits(memoryProperties))

	if err != nil {
		return nil, err
	}

	var deviceMemory vk.DeviceMemory

	err = vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory))
	if err != nil {
		return nil, errors.Wrapf(err, "error allocating %d bytes of device memory", sizeInBytes)
	}

	var ret DeviceMemory

	ret.Size = uint64(sizeInBytes)
	ret.Device = d
	ret.VKDeviceMemory = deviceMemory

	return &ret, nil
}
