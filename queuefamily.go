package vulka

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/cockroachdb/errors"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

func (ql QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsCompute()
	})
}

func (ql QueueFamilySlice) FilterPresent(surface vk.Surface) QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.SupportsPresent(surface)
	})
}

func (ql QueueFamilySlice) FilterGraphicsAndPresent(surface vk.Surface) QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics() && q.SupportsPresent(surface)
	})
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsGraphics()
	})
}

func (ql QueueFamilySlice) FilterTransfer() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsTransfer()
	})
}

// QueueFamily is one queue family of an adapter. Before a logical device is
// created it only answers capability queries; once a device instantiates the
// family it also hands out the device's queues, created lazily and cached so
// the same index always yields the same *Queue.
type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties

	device *Device
	queues []*Queue
}

func (q *QueueFamily) attach(d *Device) {
	q.device = d
	q.queues = make([]*Queue, q.QueueCount())
}

// Device returns the logical device this family was instantiated on, or nil
// if no device has been created from it yet.
func (q *QueueFamily) Device() *Device {
	return q.device
}

// QueueCount returns how many queues this family advertises.
func (q *QueueFamily) QueueCount() int {
	return int(q.VKQueueFamilyProperties.QueueCount)
}

// Queue returns the queue at index within this family, creating the handle on
// first use. The family must have been part of a logical device creation.
func (q *QueueFamily) Queue(index int) (*Queue, error) {
	if q.device == nil {
		return nil, errors.Newf("queue family %d has no logical device", q.Index)
	}
	if index < 0 || index >= len(q.queues) {
		return nil, errors.Newf("queue index %d out of range for family %d (%d queues)", index, q.Index, len(q.queues))
	}

	if q.queues[index] == nil {
		var vkq vk.Queue
		vk.GetDeviceQueue(q.device.VKDevice, uint32(q.Index), uint32(index), &vkq)
		q.queues[index] = &Queue{
			Device:      q.device,
			QueueFamily: q,
			Index:       index,
			VKQueue:     vkq,
		}
	}

	return q.queues[index], nil
}

func (q *QueueFamily) IsCompute() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) == vk.QueueFlags(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == vk.QueueFlags(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueTransferBit) == vk.QueueFlags(vk.QueueTransferBit)
}

func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var supportsPresent vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &supportsPresent)
	return supportsPresent == vk.True
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Compute: %v Graphics: %v Transfer: %v }", q.Index, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
