package vulka

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// Fence is a host-waitable signal for GPU work completion.
type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

func (d *Device) VKCreateFence(signaled bool) (vk.Fence, error) {
	var fence vk.Fence
	var fenceCreateInfo = vk.FenceCreateInfo{}
	fenceCreateInfo.SType = vk.StructureTypeFenceCreateInfo
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	} else {
		fenceCreateInfo.Flags = 0
	}
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (d *Device) CreateFence() (*Fence, error) {
	fence, err := d.VKCreateFence(false)
	if err != nil {
		return nil, err
	}
	return &Fence{Device: d, VKFence: fence}, nil
}

// CreateSignaledFence creates a fence that starts signaled, so the first
// wait on it returns immediately.
func (d *Device) CreateSignaledFence() (*Fence, error) {
	fence, err := d.VKCreateFence(true)
	if err != nil {
		return nil, err
	}
	return &Fence{Device: d, VKFence: fence}, nil
}

// Status reports whether the fence is currently signaled.
func (f *Fence) Status() bool {
	return vk.GetFenceStatus(f.Device.VKDevice, f.VKFence) == vk.Success
}

// Wait blocks until the fence signals or the timeout elapses.
func (f *Fence) Wait(ts time.Duration) error {
	return f.Device.WaitForFences(true, ts, f)
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset() error {
	return f.Device.ResetFences(f)
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
