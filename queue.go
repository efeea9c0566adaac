package vulka

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Queue is a device queue handle. Handles are created lazily by their
// QueueFamily and cached, so a Queue is never owned or destroyed directly.
type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	Index       int
	VKQueue     vk.Queue
}

// SemaphoreStage pairs a semaphore with the pipeline stage it applies to.
// For waits the stage is where execution holds until the semaphore signals.
// For signals it names the stage the work must reach before signaling; core
// Vulkan 1.0 submission always signals at batch completion, so the signal
// stage is accepted for API symmetry and recorded intent.
type SemaphoreStage struct {
	Semaphore *Semaphore
	Stage     vk.PipelineStageFlags
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

// Submit submits the command buffers with per-semaphore stage masks and an
// optional fence to signal on completion.
func (q *Queue) Submit(waits []SemaphoreStage, buffers []*CommandBuffer, signals []SemaphoreStage, fence *Fence) error {

	waitSemaphores := make([]vk.Semaphore, len(waits))
	waitStages := make([]vk.PipelineStageFlags, len(waits))
	for i, w := range waits {
		waitSemaphores[i] = w.Semaphore.VKSemaphore
		waitStages[i] = w.Stage
	}

	signalSemaphores := make([]vk.Semaphore, len(signals))
	for i, s := range signals {
		signalSemaphores[i] = s.Semaphore.VKSemaphore
	}

	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(waits)),
		PWaitSemaphores:      waitSemaphores,
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   uint32(len(buffers)),
		PCommandBuffers:      b,
		SignalSemaphoreCount: uint32(len(signals)),
		PSignalSemaphores:    signalSemaphores,
	}

	var vkFence vk.Fence = vk.NullFence
	if fence != nil {
		vkFence = fence.VKFence
	}

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vkFence))
	if err != nil {
		return errors.Wrap(err, "error submitting to queue")
	}

	return nil
}

// SubmitWaitIdle submits the command buffers with no synchronization and
// blocks until the queue drains. Used for one-time staging work.
func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	err := q.Submit(nil, buffers, nil, nil)
	if err != nil {
		return err
	}
	return q.WaitIdle()
}

// SubmitWithFence submits the command buffers signaling only the fence.
func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	return q.Submit(nil, buffers, nil, fence)
}

// SubmitPresent queues presentation of a swapchain image after the given
// semaphores signal. It reports suboptimal surfaces via the bool and an
// out-of-date surface as ErrOutOfDate; both mean the swapchain should be
// rebuilt.
func (q *Queue) SubmitPresent(waits []*Semaphore, swapchain *Swapchain, imageIndex uint32) (bool, error) {

	waitSemaphores := make([]vk.Semaphore, len(waits))
	for i, w := range waits {
		waitSemaphores[i] = w.VKSemaphore
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waits)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}

	return presentResult(vk.QueuePresent(q.VKQueue, &presentInfo))
}

func presentResult(res vk.Result) (bool, error) {
	switch res {
	case vk.Success:
		return false, nil
	case vk.Suboptimal:
		return true, nil
	case vk.ErrorOutOfDate:
		return false, ErrOutOfDate
	default:
		return false, errors.Wrap(vk.Error(res), "error presenting swapchain image")
	}
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
