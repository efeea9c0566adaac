package vulka

import (
	"math"
	"time"
)

// noTimeout is passed to fence and acquire waits that should block until
// the GPU gets there.
const noTimeout = time.Duration(math.MaxInt64)

// RenderFrame is the per-slot state for one frame in flight: a command
// buffer reused every time the slot comes around, the two semaphores that
// order acquire, submit and present against each other, and the fence the
// host throttles on. The fence starts signaled so the slot's first use does
// not wait.
type RenderFrame struct {
	Index          int
	CommandBuffer  *CommandBuffer
	ImageAvailable *Semaphore
	RenderFinished *Semaphore
	InFlight       *Fence
}

// CreateRenderFrame allocates the command buffer and sync objects for one
// frame slot.
func (d *Device) CreateRenderFrame(pool *CommandPool, index int) (*RenderFrame, error) {
	cmd, err := pool.AllocateBuffer()
	if err != nil {
		return nil, err
	}

	imageAvailable, err := d.CreateSemaphore()
	if err != nil {
		pool.FreeBuffer(cmd)
		return nil, err
	}

	renderFinished, err := d.CreateSemaphore()
	if err != nil {
		imageAvailable.Destroy()
		pool.FreeBuffer(cmd)
		return nil, err
	}

	inFlight, err := d.CreateSignaledFence()
	if err != nil {
		renderFinished.Destroy()
		imageAvailable.Destroy()
		pool.FreeBuffer(cmd)
		return nil, err
	}

	return &RenderFrame{
		Index:          index,
		CommandBuffer:  cmd,
		ImageAvailable: imageAvailable,
		RenderFinished: renderFinished,
		InFlight:       inFlight,
	}, nil
}

// Destroy releases the slot's sync objects and returns its command buffer to
// the pool. The slot must not be in flight.
func (f *RenderFrame) Destroy() {
	f.InFlight.Destroy()
	f.RenderFinished.Destroy()
	f.ImageAvailable.Destroy()
	f.CommandBuffer.Pool.FreeBuffer(f.CommandBuffer)
}

// frameDriver is the sequence of steps that draws one frame on one slot.
// runFrameCycle owns the ordering; implementations own the Vulkan calls, so
// the cycle itself can be tested without a GPU.
type frameDriver interface {
	// Throttle blocks until the slot's previous submission has retired.
	Throttle() error

	// Acquire asks the presentation engine for an image. stale means the
	// swapchain can no longer be drawn to and the cycle must stop here,
	// before the slot's fence is reset.
	Acquire() (imageIndex uint32, stale bool, err error)

	// Reset disarms the slot's fence. Only called once the cycle is
	// committed to submitting, so an abandoned cycle leaves the fence
	// signaled and the next Throttle on this slot returns immediately.
	Reset() error

	// Record re-records the slot's command buffer against the acquired image.
	Record(imageIndex uint32) error

	// Submit hands the command buffer to the queue and arms the fence.
	Submit() error

	// Present queues the image for presentation. stale means the frame was
	// drawn but the swapchain should be replaced before the next one.
	Present(imageIndex uint32) (stale bool, err error)
}

// runFrameCycle drives one slot through a complete frame. It returns false
// when the swapchain went stale at either end of the cycle; the caller
// recreates the swapchain and retries. A stale exit at acquire happens
// before Reset, so the slot's fence stays signaled and the slot is reusable
// immediately after recreation.
func runFrameCycle(d frameDriver) (bool, error) {
	if err := d.Throttle(); err != nil {
		return false, err
	}

	imageIndex, stale, err := d.Acquire()
	if err != nil {
		return false, err
	}
	if stale {
		return false, nil
	}

	if err := d.Reset(); err != nil {
		return false, err
	}
	if err := d.Record(imageIndex); err != nil {
		return false, err
	}
	if err := d.Submit(); err != nil {
		return false, err
	}

	stale, err = d.Present(imageIndex)
	if err != nil {
		return false, err
	}
	return !stale, nil
}
