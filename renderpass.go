package vulka

import (
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// builderSerial distinguishes builders so a part minted by one builder can
// never be resolved by another.
var builderSerial uint64

func nextBuilderSerial() uint64 {
	return atomic.AddUint64(&builderSerial, 1)
}

// RenderPass wraps a native render pass. It records its attachment count so
// framebuffers built over it can be validated.
type RenderPass struct {
	Device         *Device
	VKRenderPass   vk.RenderPass
	NumAttachments int
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// RenderPassBuilder mints attachment, subpass and dependency parts that
// reference each other by id while the render pass is being described.
// Ids are provisional; Build assigns each part its final dense index from
// its position in the lists passed to Build, then rewrites every reference.
// All misuse of the protocol (parts or references from another builder, the
// same part listed twice, a resolve list whose length differs from the color
// list) is a programmer error and panics.
type RenderPassBuilder struct {
	serial uint64
	nextID int
}

func NewRenderPassBuilder() *RenderPassBuilder {
	return &RenderPassBuilder{serial: nextBuilderSerial()}
}

func (b *RenderPassBuilder) mint() partID {
	id := partID{builder: b.serial, id: b.nextID}
	b.nextID++
	return id
}

type partID struct {
	builder uint64
	id      int
}

// Attachment describes one attachment of the pass under construction.
type Attachment struct {
	id   partID
	desc vk.AttachmentDescription
}

func (b *RenderPassBuilder) Attachment() *Attachment {
	return &Attachment{
		id: b.mint(),
		desc: vk.AttachmentDescription{
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpDontCare,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutUndefined,
		},
	}
}

func (a *Attachment) Format(f vk.Format) *Attachment {
	a.desc.Format = f
	return a
}

func (a *Attachment) Samples(s vk.SampleCountFlagBits) *Attachment {
	a.desc.Samples = s
	return a
}

func (a *Attachment) LoadOp(op vk.AttachmentLoadOp) *Attachment {
	a.desc.LoadOp = op
	return a
}

func (a *Attachment) StoreOp(op vk.AttachmentStoreOp) *Attachment {
	a.desc.StoreOp = op
	return a
}

func (a *Attachment) StencilLoadOp(op vk.AttachmentLoadOp) *Attachment {
	a.desc.StencilLoadOp = op
	return a
}

func (a *Attachment) StencilStoreOp(op vk.AttachmentStoreOp) *Attachment {
	a.desc.StencilStoreOp = op
	return a
}

func (a *Attachment) InitialLayout(l vk.ImageLayout) *Attachment {
	a.desc.InitialLayout = l
	return a
}

func (a *Attachment) FinalLayout(l vk.ImageLayout) *Attachment {
	a.desc.FinalLayout = l
	return a
}

type attachmentRef struct {
	id     partID
	layout vk.ImageLayout
}

// Subpass describes one subpass, referencing attachments by part.
type Subpass struct {
	id           partID
	bindPoint    vk.PipelineBindPoint
	inputs       []attachmentRef
	colors       []attachmentRef
	resolves     []attachmentRef
	depthStencil *attachmentRef
	preserves    []partID
}

func (b *RenderPassBuilder) Subpass() *Subpass {
	return &Subpass{
		id:        b.mint(),
		bindPoint: vk.PipelineBindPointGraphics,
	}
}

func (s *Subpass) Input(a *Attachment, layout vk.ImageLayout) *Subpass {
	s.inputs = append(s.inputs, attachmentRef{id: a.id, layout: layout})
	return s
}

func (s *Subpass) Color(a *Attachment, layout vk.ImageLayout) *Subpass {
	s.colors = append(s.colors, attachmentRef{id: a.id, layout: layout})
	return s
}

// Resolve adds a multisample-resolve target. When any resolve target is
// given there must be exactly one per color attachment.
func (s *Subpass) Resolve(a *Attachment, layout vk.ImageLayout) *Subpass {
	s.resolves = append(s.resolves, attachmentRef{id: a.id, layout: layout})
	return s
}

func (s *Subpass) DepthStencil(a *Attachment, layout vk.ImageLayout) *Subpass {
	s.depthStencil = &attachmentRef{id: a.id, layout: layout}
	return s
}

func (s *Subpass) Preserve(a *Attachment) *Subpass {
	s.preserves = append(s.preserves, a.id)
	return s
}

// Dependency describes an execution and memory dependency between two
// subpasses, or between a subpass and work outside the pass.
type Dependency struct {
	id             partID
	src, dst       *partID // nil means external
	srcStage       vk.PipelineStageFlags
	dstStage       vk.PipelineStageFlags
	srcAccess      vk.AccessFlags
	dstAccess      vk.AccessFlags
	flags          vk.DependencyFlags
	srcSet, dstSet bool
}

func (b *RenderPassBuilder) Dependency() *Dependency {
	return &Dependency{id: b.mint()}
}

// Src names the source subpass of the dependency.
func (d *Dependency) Src(s *Subpass) *Dependency {
	id := s.id
	d.src = &id
	d.srcSet = true
	return d
}

// SrcExternal marks the dependency source as work outside the render pass.
func (d *Dependency) SrcExternal() *Dependency {
	d.src = nil
	d.srcSet = true
	return d
}

// Dst names the destination subpass of the dependency.
func (d *Dependency) Dst(s *Subpass) *Dependency {
	id := s.id
	d.dst = &id
	d.dstSet = true
	return d
}

// DstExternal marks the dependency destination as work outside the render pass.
func (d *Dependency) DstExternal() *Dependency {
	d.dst = nil
	d.dstSet = true
	return d
}

func (d *Dependency) SrcStageMask(f vk.PipelineStageFlags) *Dependency {
	d.srcStage = f
	return d
}

func (d *Dependency) DstStageMask(f vk.PipelineStageFlags) *Dependency {
	d.dstStage = f
	return d
}

func (d *Dependency) SrcAccessMask(f vk.AccessFlags) *Dependency {
	d.srcAccess = f
	return d
}

func (d *Dependency) DstAccessMask(f vk.AccessFlags) *Dependency {
	d.dstAccess = f
	return d
}

func (d *Dependency) Flags(f vk.DependencyFlags) *Dependency {
	d.flags = f
	return d
}

// Build resolves the described parts into a native render pass. The position
// of each part in its list is its final index; every cross-reference is
// rewritten from provisional ids to those indices before the native call.
func (b *RenderPassBuilder) Build(device *Device, attachments []*Attachment, subpasses []*Subpass, dependencies []*Dependency) (*RenderPass, error) {
	createInfo := b.resolve(attachments, subpasses, dependencies)

	var renderPass vk.RenderPass
	err := vk.Error(vk.CreateRenderPass(device.VKDevice, &createInfo, nil, &renderPass))
	if err != nil {
		return nil, errors.Wrap(err, "error creating render pass")
	}

	return &RenderPass{
		Device:         device,
		VKRenderPass:   renderPass,
		NumAttachments: len(attachments),
	}, nil
}

// resolve performs the two-pass index assignment and reference rewriting.
// It is split from Build so descriptor resolution works without a device.
func (b *RenderPassBuilder) resolve(attachments []*Attachment, subpasses []*Subpass, dependencies []*Dependency) vk.RenderPassCreateInfo {

	// First pass: every listed part gets the dense index of its position.
	attachmentIndex := make(map[partID]uint32, len(attachments))
	attachmentDescs := make([]vk.AttachmentDescription, len(attachments))
	for i, a := range attachments {
		b.checkPart("attachment", a.id, attachmentIndex, uint32(i))
		attachmentDescs[i] = a.desc
	}

	subpassIndex := make(map[partID]uint32, len(subpasses))
	for i, s := range subpasses {
		b.checkPart("subpass", s.id, subpassIndex, uint32(i))
	}

	seenDeps := make(map[partID]uint32, len(dependencies))
	for i, d := range dependencies {
		b.checkPart("dependency", d.id, seenDeps, uint32(i))
	}

	// Second pass: rewrite references now that every index is known.
	resolveRef := func(ref attachmentRef) vk.AttachmentReference {
		return vk.AttachmentReference{
			Attachment: b.lookup("attachment", ref.id, attachmentIndex),
			Layout:     ref.layout,
		}
	}

	subpassDescs := make([]vk.SubpassDescription, len(subpasses))
	for i, s := range subpasses {
		if len(s.resolves) > 0 && len(s.resolves) != len(s.colors) {
			panic(fmt.Sprintf("render pass subpass %d: %d resolve attachments for %d color attachments", i, len(s.resolves), len(s.colors)))
		}

		desc := vk.SubpassDescription{
			PipelineBindPoint:    s.bindPoint,
			InputAttachmentCount: uint32(len(s.inputs)),
			ColorAttachmentCount: uint32(len(s.colors)),
		}

		if len(s.inputs) > 0 {
			refs := make([]vk.AttachmentReference, len(s.inputs))
			for j, r := range s.inputs {
				refs[j] = resolveRef(r)
			}
			desc.PInputAttachments = refs
		}
		if len(s.colors) > 0 {
			refs := make([]vk.AttachmentReference, len(s.colors))
			for j, r := range s.colors {
				refs[j] = resolveRef(r)
			}
			desc.PColorAttachments = refs
		}
		if len(s.resolves) > 0 {
			refs := make([]vk.AttachmentReference, len(s.resolves))
			for j, r := range s.resolves {
				refs[j] = resolveRef(r)
			}
			desc.PResolveAttachments = refs
		}
		if s.depthStencil != nil {
			ref := resolveRef(*s.depthStencil)
			desc.PDepthStencilAttachment = &ref
		}
		if len(s.preserves) > 0 {
			idx := make([]uint32, len(s.preserves))
			for j, id := range s.preserves {
				idx[j] = b.lookup("attachment", id, attachmentIndex)
			}
			desc.PreserveAttachmentCount = uint32(len(idx))
			desc.PPreserveAttachments = idx
		}

		subpassDescs[i] = desc
	}

	dependencyDescs := make([]vk.SubpassDependency, len(dependencies))
	for i, d := range dependencies {
		if !d.srcSet || !d.dstSet {
			panic(fmt.Sprintf("render pass dependency %d: source and destination must both be set", i))
		}

		src := uint32(vk.SubpassExternal)
		if d.src != nil {
			src = b.lookup("subpass", *d.src, subpassIndex)
		}
		dst := uint32(vk.SubpassExternal)
		if d.dst != nil {
			dst = b.lookup("subpass", *d.dst, subpassIndex)
		}

		dependencyDescs[i] = vk.SubpassDependency{
			SrcSubpass:      src,
			DstSubpass:      dst,
			SrcStageMask:    d.srcStage,
			DstStageMask:    d.dstStage,
			SrcAccessMask:   d.srcAccess,
			DstAccessMask:   d.dstAccess,
			DependencyFlags: d.flags,
		}
	}

	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescs)),
		PAttachments:    attachmentDescs,
		SubpassCount:    uint32(len(subpassDescs)),
		PSubpasses:      subpassDescs,
		DependencyCount: uint32(len(dependencyDescs)),
		PDependencies:   dependencyDescs,
	}
}

func (b *RenderPassBuilder) checkPart(kind string, id partID, index map[partID]uint32, i uint32) {
	if id.builder != b.serial {
		panic(fmt.Sprintf("render pass %s was minted by another builder", kind))
	}
	if _, dup := index[id]; dup {
		panic(fmt.Sprintf("render pass %s listed twice", kind))
	}
	index[id] = i
}

func (b *RenderPassBuilder) lookup(kind string, id partID, index map[partID]uint32) uint32 {
	if id.builder != b.serial {
		panic(fmt.Sprintf("render pass references %s from another builder", kind))
	}
	i, ok := index[id]
	if !ok {
		panic(fmt.Sprintf("render pass references %s that was not passed to Build", kind))
	}
	return i
}
