/*
Package vulka is a resource-ownership and frame-synchronization layer on top
of the Vulkan graphics framework for go. Vulkan is enormously capable and
enormously verbose; this package wraps the parts of it where ownership and
lifetime mistakes are easiest to make, while leaving the native API within
arm's reach.

Every wrapper in this package owns exactly one native handle and knows which
parent object the handle was created from, so Destroy can always be called in
the obvious order without tracking device pointers on the side. Objects that
are owned by something else entirely, such as the images backing a swapchain
or the queues of a logical device, are handed out by their owner and are
never destroyed through the wrapper. Native handles remain exposed on every
wrapper through fields prefixed with 'VK', so applications are not limited to
what this package wraps.

Descriptor construction

Render passes and descriptor set layouts are built through builder objects
rather than by filling index-based native structures by hand. A builder mints
parts (attachments, subpasses, dependencies, bindings) that reference each
other directly; when Build is called the parts are assigned dense indices
from their list positions and every cross-reference is rewritten. Mixing
parts between builders, listing a part twice, or referencing a part that was
never listed is a programming error and panics.

Frame synchronization

RenderContext draws frames through a fixed ring of RenderFrame slots, one per
frame in flight. Each slot owns its command buffer, its acquire and render
semaphores, and a fence that throttles the host when the GPU falls behind.
When a swapchain goes stale, at acquire or at present, the frame cycle backs
out before committing the slot's fence, the swapchain is recreated at the
window's current size and drawing resumes on the next call.

Resource pools

Vulkan limits how many live memory allocations an application may hold, so
buffers and images are sub-allocated from named pools owned by a
ResourceManager, each pool being one device memory block fronted by a
first-fit allocator. Device-local pools stage their uploads through a host
visible pool named 'staging'.
*/
package vulka
