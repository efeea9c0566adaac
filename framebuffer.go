package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Framebuffer binds concrete image views to the attachment slots of a
// render pass. The render pass is shared, not owned; it must outlive the
// framebuffer.
type Framebuffer struct {
	RenderPass    *RenderPass
	VKFramebuffer vk.Framebuffer
	Width         uint32
	Height        uint32
}

// CreateFramebuffer creates a framebuffer over the render pass. The number
// of views must equal the attachment count the pass was built with.
func (rp *RenderPass) CreateFramebuffer(views []*ImageView, extent vk.Extent2D) (*Framebuffer, error) {
	if len(views) != rp.NumAttachments {
		return nil, errors.Newf("framebuffer has %d image views, render pass expects %d attachments", len(views), rp.NumAttachments)
	}

	attachments := make([]vk.ImageView, len(views))
	for i, v := range views {
		attachments[i] = v.VKImageView
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.VKRenderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}

	var framebuffer vk.Framebuffer
	err := vk.Error(vk.CreateFramebuffer(rp.Device.VKDevice, &createInfo, nil, &framebuffer))
	if err != nil {
		return nil, errors.Wrap(err, "error creating framebuffer")
	}

	return &Framebuffer{
		RenderPass:    rp,
		VKFramebuffer: framebuffer,
		Width:         extent.Width,
		Height:        extent.Height,
	}, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.RenderPass.Device.VKDevice, f.VKFramebuffer, nil)
}
