package vulka

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func TestRenderPassResolveIndicesFollowListOrder(t *testing.T) {
	b := NewRenderPassBuilder()

	color := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	depth := b.Attachment().Format(vk.FormatD32Sfloat)

	subpass := b.Subpass().
		Color(color, vk.ImageLayoutColorAttachmentOptimal).
		DepthStencil(depth, vk.ImageLayoutDepthStencilAttachmentOptimal)

	info := b.resolve([]*Attachment{color, depth}, []*Subpass{subpass}, nil)

	if info.AttachmentCount != 2 || info.SubpassCount != 1 {
		t.Fatalf("got %d attachments, %d subpasses", info.AttachmentCount, info.SubpassCount)
	}
	if got := info.PSubpasses[0].PColorAttachments[0].Attachment; got != 0 {
		t.Errorf("color attachment index %d, want 0", got)
	}
	if got := info.PSubpasses[0].PDepthStencilAttachment.Attachment; got != 1 {
		t.Errorf("depth attachment index %d, want 1", got)
	}
}

// Minting order must not matter; only the position in the lists passed to
// Build assigns indices.
func TestRenderPassResolveIgnoresMintOrder(t *testing.T) {
	b := NewRenderPassBuilder()

	// Minted depth-first, listed color-first.
	depth := b.Attachment().Format(vk.FormatD32Sfloat)
	color := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)

	subpass := b.Subpass().
		Color(color, vk.ImageLayoutColorAttachmentOptimal).
		DepthStencil(depth, vk.ImageLayoutDepthStencilAttachmentOptimal)

	info := b.resolve([]*Attachment{color, depth}, []*Subpass{subpass}, nil)

	if got := info.PSubpasses[0].PColorAttachments[0].Attachment; got != 0 {
		t.Errorf("color attachment index %d, want 0", got)
	}
	if got := info.PSubpasses[0].PDepthStencilAttachment.Attachment; got != 1 {
		t.Errorf("depth attachment index %d, want 1", got)
	}
	if got := info.PAttachments[0].Format; got != vk.FormatB8g8r8a8Unorm {
		t.Errorf("attachment 0 format %v, want color format", got)
	}
}

func TestRenderPassExternalDependency(t *testing.T) {
	b := NewRenderPassBuilder()

	color := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	subpass := b.Subpass().Color(color, vk.ImageLayoutColorAttachmentOptimal)
	dep := b.Dependency().
		SrcExternal().
		Dst(subpass).
		SrcStageMask(vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)).
		DstStageMask(vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit))

	info := b.resolve([]*Attachment{color}, []*Subpass{subpass}, []*Dependency{dep})

	if got := info.PDependencies[0].SrcSubpass; got != uint32(vk.SubpassExternal) {
		t.Errorf("src subpass %d, want external", got)
	}
	if got := info.PDependencies[0].DstSubpass; got != 0 {
		t.Errorf("dst subpass %d, want 0", got)
	}
}

func TestRenderPassResolvePanicsOnDuplicatePart(t *testing.T) {
	b := NewRenderPassBuilder()
	color := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)

	mustPanic(t, func() {
		b.resolve([]*Attachment{color, color}, nil, nil)
	})
}

func TestRenderPassResolvePanicsOnForeignPart(t *testing.T) {
	b1 := NewRenderPassBuilder()
	b2 := NewRenderPassBuilder()

	foreign := b2.Attachment().Format(vk.FormatB8g8r8a8Unorm)

	mustPanic(t, func() {
		b1.resolve([]*Attachment{foreign}, nil, nil)
	})
}

func TestRenderPassResolvePanicsOnForeignReference(t *testing.T) {
	b1 := NewRenderPassBuilder()
	b2 := NewRenderPassBuilder()

	own := b1.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	foreign := b2.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	subpass := b1.Subpass().Color(foreign, vk.ImageLayoutColorAttachmentOptimal)

	mustPanic(t, func() {
		b1.resolve([]*Attachment{own}, []*Subpass{subpass}, nil)
	})
}

func TestRenderPassResolvePanicsOnUnlistedReference(t *testing.T) {
	b := NewRenderPassBuilder()

	listed := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	unlisted := b.Attachment().Format(vk.FormatD32Sfloat)
	subpass := b.Subpass().
		Color(listed, vk.ImageLayoutColorAttachmentOptimal).
		DepthStencil(unlisted, vk.ImageLayoutDepthStencilAttachmentOptimal)

	mustPanic(t, func() {
		b.resolve([]*Attachment{listed}, []*Subpass{subpass}, nil)
	})
}

func TestRenderPassResolvePanicsOnResolveCountMismatch(t *testing.T) {
	b := NewRenderPassBuilder()

	c1 := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	c2 := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	res := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)

	subpass := b.Subpass().
		Color(c1, vk.ImageLayoutColorAttachmentOptimal).
		Color(c2, vk.ImageLayoutColorAttachmentOptimal).
		Resolve(res, vk.ImageLayoutColorAttachmentOptimal)

	mustPanic(t, func() {
		b.resolve([]*Attachment{c1, c2, res}, []*Subpass{subpass}, nil)
	})
}

func TestRenderPassResolvePanicsOnIncompleteDependency(t *testing.T) {
	b := NewRenderPassBuilder()

	color := b.Attachment().Format(vk.FormatB8g8r8a8Unorm)
	subpass := b.Subpass().Color(color, vk.ImageLayoutColorAttachmentOptimal)
	dep := b.Dependency().Dst(subpass) // source never set

	mustPanic(t, func() {
		b.resolve([]*Attachment{color}, []*Subpass{subpass}, []*Dependency{dep})
	})
}
