package vulka

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	vk "github.com/vulkan-go/vulkan"
)

// DrawImageFormat is the format of the intermediate images the render pass
// draws into before the result is blitted onto the swapchain.
const DrawImageFormat = vk.FormatR16g16b16a16Sfloat

// RenderContextConfig describes everything a RenderContext needs to draw a
// single textured, uniform-driven mesh.
type RenderContextConfig struct {
	App *App

	// CreateSurface creates the presentation surface once the instance
	// exists. Ownership of the surface passes to the instance.
	CreateSurface func(*Instance) (vk.Surface, error)

	// SurfaceExtent reports the current framebuffer size of the window, in
	// pixels. Consulted whenever the swapchain has to be recreated.
	SurfaceExtent func() (uint32, uint32)

	// FramesInFlight is how many frames the CPU may record ahead of the
	// GPU. Defaults to 2.
	FramesInFlight int

	// VertexShader and FragmentShader are compiled SPIR-V.
	VertexShader   []byte
	FragmentShader []byte

	// TextureRGBA is tightly packed 8-bit RGBA pixel data for the texture
	// sampled by the fragment shader.
	TextureRGBA   []byte
	TextureWidth  int
	TextureHeight int

	Vertices VertexSourcer
	Indices  IndexSourcer

	// UniformSize is the byte size of the uniform block. UpdateUniform is
	// called once per frame with the slot's mapped uniform memory, the time
	// since the context was created and the current swapchain extent.
	UniformSize   int
	UpdateUniform func(data []byte, elapsed time.Duration, extent vk.Extent2D)
}

// RenderContext owns the full chain from instance to per-frame sync objects
// and draws one frame at a time. Rendering goes to intermediate draw images,
// one per frame slot, which are blitted onto the acquired swapchain image;
// the swapchain itself is never a render target, so swapchain recreation
// only touches the swapchain, the draw images and the frame slots.
type RenderContext struct {
	Instance       *Instance
	PhysicalDevice *PhysicalDevice
	Device         *Device
	GraphicsQueue  *Queue
	PresentQueue   *Queue

	Swapchain *Swapchain

	CommandPool     *CommandPool
	ResourceManager *ResourceManager

	RenderPass     *RenderPass
	PipelineLayout *PipelineLayout
	PipelineCache  *PipelineCache
	Pipeline       *GraphicsPipeline

	config RenderContextConfig

	descriptorSetLayout *DescriptorSetLayout
	descriptorPool      *DescriptorPool
	descriptorSets      []*DescriptorSet

	uniformBuffers []*BoundBuffer

	texture     *ImageResource
	textureView *ImageView
	sampler     *Sampler

	vertexBuffer *BufferResource
	indexBuffer  *BufferResource

	drawImages   []*BoundImage
	drawViews    []*ImageView
	framebuffers []*Framebuffer

	frames     []*RenderFrame
	frameIndex int

	startTime time.Duration
}

// CreateRenderContext builds the whole rendering chain described by the
// config. Everything it creates is owned by the context and released by
// Destroy.
func CreateRenderContext(config RenderContextConfig) (*RenderContext, error) {
	if config.App == nil {
		return nil, errors.New("render context config has no app")
	}
	if config.CreateSurface == nil || config.SurfaceExtent == nil {
		return nil, errors.New("render context config has no surface callbacks")
	}
	if len(config.VertexShader) == 0 || len(config.FragmentShader) == 0 {
		return nil, errors.New("render context config has no shaders")
	}
	if config.Vertices == nil || config.Indices == nil {
		return nil, errors.New("render context config has no mesh data")
	}
	if config.UniformSize <= 0 || config.UpdateUniform == nil {
		return nil, errors.New("render context config has no uniform block")
	}
	if len(config.TextureRGBA) != 4*config.TextureWidth*config.TextureHeight {
		return nil, errors.Newf("texture data is %d bytes, want %d for %dx%d RGBA",
			len(config.TextureRGBA), 4*config.TextureWidth*config.TextureHeight,
			config.TextureWidth, config.TextureHeight)
	}
	if config.FramesInFlight <= 0 {
		config.FramesInFlight = 2
	}

	r := &RenderContext{config: config}

	err := r.initDevice()
	if err == nil {
		err = r.initPools()
	}
	if err == nil {
		err = r.initSwapchain(nil)
	}
	if err == nil {
		err = r.initRenderPass()
	}
	if err == nil {
		err = r.initPipeline()
	}
	if err == nil {
		err = r.initResources()
	}
	if err == nil {
		err = r.initDescriptorSets()
	}
	if err == nil {
		err = r.initFrameTargets()
	}
	if err == nil {
		err = r.initFrames()
	}
	if err != nil {
		r.Destroy()
		return nil, err
	}

	r.startTime = hrtime.Now()
	return r, nil
}

func (r *RenderContext) initDevice() error {
	instance, err := r.config.App.CreateInstance()
	if err != nil {
		return err
	}
	r.Instance = instance

	surface, err := r.config.CreateSurface(instance)
	if err != nil {
		return err
	}
	instance.BindSurface(surface)

	pdevices, err := instance.PhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "error enumerating physical devices")
	}
	if len(pdevices) == 0 {
		return errors.New("no physical devices found")
	}
	r.PhysicalDevice = pdevices[0]

	families, err := r.PhysicalDevice.QueueFamilies()
	if err != nil {
		return err
	}

	gqueues := families.FilterGraphicsAndPresent(surface)
	graphicsOnly := gqueues
	presentOnly := gqueues
	if len(gqueues) == 0 {
		// No single family does both; take one of each.
		graphicsOnly = families.FilterGraphics()
		presentOnly = families.FilterPresent(surface)
		if len(graphicsOnly) == 0 || len(presentOnly) == 0 {
			return errors.Newf("device %s cannot draw and present", r.PhysicalDevice)
		}
		gqueues = append(QueueFamilySlice{graphicsOnly[0]}, presentOnly[0])
	}

	device, err := r.PhysicalDevice.CreateLogicalDeviceWithOptions(gqueues, &CreateDeviceOptions{
		EnabledExtensions: []string{"VK_KHR_swapchain"},
	})
	if err != nil {
		return err
	}
	r.Device = device

	r.GraphicsQueue, err = device.GetQueue(graphicsOnly[0])
	if err != nil {
		return err
	}
	r.PresentQueue, err = device.GetQueue(presentOnly[0])
	if err != nil {
		return err
	}

	return nil
}

func (r *RenderContext) initPools() error {
	var err error
	r.CommandPool, err = r.Device.CreateCommandPool(r.GraphicsQueue.QueueFamily)
	if err != nil {
		return err
	}

	r.ResourceManager = r.Device.CreateResourceManager()

	meshBytes := uint64(len(r.config.Vertices.Bytes()) + len(r.config.Indices.Bytes()))
	textureBytes := uint64(len(r.config.TextureRGBA))

	// Staging holds at most one mesh or texture upload at a time, plus
	// slack for allocator alignment.
	stagingSize := meshBytes + textureBytes + 1<<20

	if _, err := r.ResourceManager.AllocateStagingPool(stagingSize); err != nil {
		return err
	}
	if _, err := r.ResourceManager.AllocateDeviceVertexAndIndexBufferPool("mesh", meshBytes+1<<20); err != nil {
		return err
	}
	// Optimal tiling may need considerably more memory than the packed
	// pixel data.
	if _, err := r.ResourceManager.AllocateDeviceTexturePool("textures", 2*textureBytes+1<<20); err != nil {
		return err
	}
	return nil
}

func (r *RenderContext) initSwapchain(old *Swapchain) error {
	width, height := r.config.SurfaceExtent()

	swapchain, err := r.Device.CreateSwapchain(r.Instance.Surface(), r.GraphicsQueue, r.PresentQueue, &CreateSwapchainOptions{
		OldSwapchain: old,
		ActualSize:   vk.Extent2D{Width: width, Height: height},
	})
	if err != nil {
		return err
	}

	if _, err := swapchain.Images(); err != nil {
		swapchain.Destroy()
		return err
	}

	r.Swapchain = swapchain
	return nil
}

func (r *RenderContext) initRenderPass() error {
	b := NewRenderPassBuilder()

	// The pass itself transitions the draw image to transfer source, so
	// recording only has to move it into color attachment layout up front.
	color := b.Attachment().
		Format(DrawImageFormat).
		LoadOp(vk.AttachmentLoadOpClear).
		StoreOp(vk.AttachmentStoreOpStore).
		InitialLayout(vk.ImageLayoutColorAttachmentOptimal).
		FinalLayout(vk.ImageLayoutTransferSrcOptimal)

	subpass := b.Subpass().Color(color, vk.ImageLayoutColorAttachmentOptimal)

	dependency := b.Dependency().
		SrcExternal().
		Dst(subpass).
		SrcStageMask(vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)).
		DstStageMask(vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)).
		DstAccessMask(vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit))

	rp, err := b.Build(r.Device, []*Attachment{color}, []*Subpass{subpass}, []*Dependency{dependency})
	if err != nil {
		return err
	}
	r.RenderPass = rp
	return nil
}

func (r *RenderContext) initPipeline() error {
	b := NewDescriptorSetLayoutBuilder()
	uniform := b.Binding().
		Descriptor(vk.DescriptorTypeUniformBuffer, 1).
		Stages(vk.ShaderStageFlags(vk.ShaderStageVertexBit))
	texture := b.Binding().
		Descriptor(vk.DescriptorTypeCombinedImageSampler, 1).
		Stages(vk.ShaderStageFlags(vk.ShaderStageFragmentBit))

	layout, err := b.Build(r.Device, []*LayoutBinding{uniform, texture})
	if err != nil {
		return err
	}
	r.descriptorSetLayout = layout

	r.PipelineLayout, err = r.Device.CreatePipelineLayout(layout)
	if err != nil {
		return err
	}

	r.PipelineCache, err = r.Device.CreatePipelineCache()
	if err != nil {
		return err
	}

	config := r.Device.CreateGraphicsPipelineConfig()
	config.SetPipelineLayout(r.PipelineLayout)
	config.SetRenderPass(r.RenderPass)
	config.AddVertexDescriptor(r.config.Vertices)
	if err := config.AddShaderStageFromBytes(r.config.VertexShader, "main", vk.ShaderStageVertexBit); err != nil {
		return err
	}
	if err := config.AddShaderStageFromBytes(r.config.FragmentShader, "main", vk.ShaderStageFragmentBit); err != nil {
		return err
	}
	defer config.Destroy()

	r.Pipeline, err = r.Device.CreateGraphicsPipeline(r.PipelineCache, config, r.Swapchain.Extent)
	return err
}

func (r *RenderContext) initResources() error {
	if err := r.uploadMesh(); err != nil {
		return err
	}
	if err := r.uploadTexture(); err != nil {
		return err
	}

	var err error
	r.sampler, err = r.Device.CreateLinearSampler()
	return err
}

func (r *RenderContext) uploadMesh() error {
	pool := r.ResourceManager.BufferPool("mesh")

	vertexBuffer, err := pool.AllocateFor(r.config.Vertices)
	if err != nil {
		return err
	}
	r.vertexBuffer = vertexBuffer

	indexBuffer, err := pool.AllocateBuffer(uint64(len(r.config.Indices.Bytes())), vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	if err != nil {
		return err
	}
	r.indexBuffer = indexBuffer

	if err := vertexBuffer.AllocateStagingResource(); err != nil {
		return err
	}
	defer vertexBuffer.FreeStagingResource()
	if err := indexBuffer.AllocateStagingResource(); err != nil {
		return err
	}
	defer indexBuffer.FreeStagingResource()

	copy(vertexBuffer.StagingResource.Bytes(), r.config.Vertices.Bytes())
	copy(indexBuffer.StagingResource.Bytes(), r.config.Indices.Bytes())

	cmd, err := r.CommandPool.AllocateBuffer()
	if err != nil {
		return err
	}
	defer r.CommandPool.FreeBuffer(cmd)

	if err := cmd.BeginOneTime(); err != nil {
		return err
	}
	if err := cmd.CmdCopyBufferFromStagedResource(vertexBuffer); err != nil {
		return err
	}
	if err := cmd.CmdCopyBufferFromStagedResource(indexBuffer); err != nil {
		return err
	}
	if err := cmd.End(); err != nil {
		return err
	}

	return r.GraphicsQueue.SubmitWaitIdle(cmd)
}

func (r *RenderContext) uploadTexture() error {
	pool := r.ResourceManager.ImagePool("textures")

	extent := vk.Extent2D{Width: uint32(r.config.TextureWidth), Height: uint32(r.config.TextureHeight)}
	texture, err := pool.AllocateImage(extent, vk.FormatR8g8b8a8Unorm, vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit))
	if err != nil {
		return err
	}
	r.texture = texture

	if err := texture.AllocateStagingResource(); err != nil {
		return err
	}
	defer texture.FreeStagingResource()

	copy(texture.StagingResource.Bytes(), r.config.TextureRGBA)

	cmd, err := r.CommandPool.AllocateBuffer()
	if err != nil {
		return err
	}
	defer r.CommandPool.FreeBuffer(cmd)

	if err := cmd.BeginOneTime(); err != nil {
		return err
	}
	cmd.CmdTransitionImageLayout(&texture.Image, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	if err := cmd.CmdCopyImageFromStagedResource(texture); err != nil {
		return err
	}
	cmd.CmdTransitionImageLayout(&texture.Image, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	if err := cmd.End(); err != nil {
		return err
	}

	if err := r.GraphicsQueue.SubmitWaitIdle(cmd); err != nil {
		return err
	}

	r.textureView, err = texture.CreateImageView()
	return err
}

func (r *RenderContext) initDescriptorSets() error {
	n := r.config.FramesInFlight

	pool := r.Device.NewDescriptorPool()
	pool.AddPoolSize(vk.DescriptorTypeUniformBuffer, n)
	pool.AddPoolSize(vk.DescriptorTypeCombinedImageSampler, n)
	if _, err := r.Device.CreateDescriptorPool(pool, n); err != nil {
		return err
	}
	r.descriptorPool = pool

	r.uniformBuffers = make([]*BoundBuffer, n)
	r.descriptorSets = make([]*DescriptorSet, n)
	for i := 0; i < n; i++ {
		ub, err := r.Device.CreateBoundBufferMapped(uint64(r.config.UniformSize),
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit))
		if err != nil {
			return err
		}
		r.uniformBuffers[i] = ub

		ds, err := pool.Allocate(r.descriptorSetLayout)
		if err != nil {
			return err
		}
		ds.AddBuffer(0, vk.DescriptorTypeUniformBuffer, &ub.Buffer, 0)
		ds.AddCombinedImageSampler(1, vk.ImageLayoutShaderReadOnlyOptimal, r.textureView, r.sampler)
		ds.Write()
		r.descriptorSets[i] = ds
	}

	return nil
}

// initFrameTargets creates the per-slot draw images, their views and the
// framebuffers binding them to the render pass, all at the current swapchain
// extent.
func (r *RenderContext) initFrameTargets() error {
	n := r.config.FramesInFlight
	extent := r.Swapchain.Extent

	r.drawImages = make([]*BoundImage, n)
	r.drawViews = make([]*ImageView, n)
	r.framebuffers = make([]*Framebuffer, n)

	for i := 0; i < n; i++ {
		img, err := r.Device.CreateBoundImage(extent, DrawImageFormat, vk.ImageTilingOptimal,
			vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit|vk.ImageUsageTransferSrcBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
		if err != nil {
			return err
		}
		r.drawImages[i] = img

		view, err := img.CreateImageView()
		if err != nil {
			return err
		}
		r.drawViews[i] = view

		fb, err := r.RenderPass.CreateFramebuffer([]*ImageView{view}, extent)
		if err != nil {
			return err
		}
		r.framebuffers[i] = fb
	}

	return nil
}

func (r *RenderContext) destroyFrameTargets() {
	for _, fb := range r.framebuffers {
		if fb != nil {
			fb.Destroy()
		}
	}
	r.framebuffers = nil
	for _, v := range r.drawViews {
		if v != nil {
			v.Destroy()
		}
	}
	r.drawViews = nil
	for _, img := range r.drawImages {
		if img != nil {
			img.Destroy()
		}
	}
	r.drawImages = nil
}

func (r *RenderContext) initFrames() error {
	n := r.config.FramesInFlight
	r.frames = make([]*RenderFrame, n)
	for i := 0; i < n; i++ {
		frame, err := r.Device.CreateRenderFrame(r.CommandPool, i)
		if err != nil {
			return err
		}
		r.frames[i] = frame
	}
	r.frameIndex = 0
	return nil
}

func (r *RenderContext) destroyFrames() {
	for _, f := range r.frames {
		if f != nil {
			f.Destroy()
		}
	}
	r.frames = nil
}

// DrawNextFrame draws one frame on the current slot. When the swapchain has
// gone stale, at acquire or at present, it recreates the swapchain at the
// window's current size and reports success; the frame is drawn on the next
// call. The slot only advances after a fully presented frame.
func (r *RenderContext) DrawNextFrame() error {
	ok, err := runFrameCycle(&contextFrameDriver{ctx: r, frame: r.frames[r.frameIndex]})
	if err != nil {
		return err
	}
	if !ok {
		width, height := r.config.SurfaceExtent()
		return r.RecreateSwapchain(width, height)
	}
	r.frameIndex = (r.frameIndex + 1) % len(r.frames)
	return nil
}

// RecreateSwapchain replaces the swapchain, the draw images sized to it and
// every frame slot. It blocks until the device is idle first, so no slot can
// still reference the old chain.
func (r *RenderContext) RecreateSwapchain(width, height uint32) error {
	if err := r.Device.WaitIdle(); err != nil {
		return err
	}

	old := r.Swapchain
	if err := r.initSwapchain(old); err != nil {
		return err
	}
	old.Destroy()

	r.destroyFrameTargets()
	if err := r.initFrameTargets(); err != nil {
		return err
	}

	r.destroyFrames()
	return r.initFrames()
}

// contextFrameDriver binds one frame slot of a RenderContext to the frame
// cycle.
type contextFrameDriver struct {
	ctx   *RenderContext
	frame *RenderFrame
}

func (fd *contextFrameDriver) Throttle() error {
	return fd.frame.InFlight.Wait(noTimeout)
}

func (fd *contextFrameDriver) Acquire() (uint32, bool, error) {
	imageIndex, suboptimal, err := fd.ctx.Swapchain.AcquireNextImage(noTimeout, fd.frame.ImageAvailable, nil)
	if errors.Is(err, ErrOutOfDate) {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return imageIndex, suboptimal, nil
}

func (fd *contextFrameDriver) Reset() error {
	return fd.frame.InFlight.Reset()
}

func (fd *contextFrameDriver) Record(imageIndex uint32) error {
	return fd.ctx.recordFrame(fd.frame, imageIndex)
}

func (fd *contextFrameDriver) Submit() error {
	return fd.ctx.GraphicsQueue.Submit(
		[]SemaphoreStage{{
			Semaphore: fd.frame.ImageAvailable,
			Stage:     vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		}},
		[]*CommandBuffer{fd.frame.CommandBuffer},
		[]SemaphoreStage{{
			Semaphore: fd.frame.RenderFinished,
			Stage:     vk.PipelineStageFlags(vk.PipelineStageAllGraphicsBit),
		}},
		fd.frame.InFlight)
}

func (fd *contextFrameDriver) Present(imageIndex uint32) (bool, error) {
	suboptimal, err := fd.ctx.PresentQueue.SubmitPresent(
		[]*Semaphore{fd.frame.RenderFinished}, fd.ctx.Swapchain, imageIndex)
	if errors.Is(err, ErrOutOfDate) {
		return true, nil
	}
	return suboptimal, err
}

// recordFrame updates the slot's uniform block and re-records its command
// buffer: draw the mesh into the slot's draw image, then blit the result
// onto the acquired swapchain image and move it to present layout.
func (r *RenderContext) recordFrame(frame *RenderFrame, imageIndex uint32) error {
	elapsed := hrtime.Now() - r.startTime
	extent := r.Swapchain.Extent

	uniform := r.uniformBuffers[frame.Index]
	r.config.UpdateUniform(ToBytes(uniform.Memory.Ptr, r.config.UniformSize), elapsed, extent)

	swapchainImages, err := r.Swapchain.Images()
	if err != nil {
		return err
	}
	swapchainImage := swapchainImages[imageIndex]
	drawImage := &r.drawImages[frame.Index].Image

	cmd := frame.CommandBuffer
	if err := cmd.Reset(); err != nil {
		return err
	}
	if err := cmd.BeginOneTime(); err != nil {
		return err
	}

	cmd.CmdTransitionImageLayout(drawImage, vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal)

	var clear vk.ClearValue
	flash := float32(math.Abs(math.Sin(elapsed.Seconds())))
	clear.SetColor([]float32{0, 0, flash, 1})

	cmd.CmdBeginRenderPass(r.RenderPass, r.framebuffers[frame.Index], extent, []vk.ClearValue{clear})
	cmd.CmdBindGraphicsPipeline(r.Pipeline)
	cmd.CmdSetViewport(extent)
	cmd.CmdSetScissor(extent)
	cmd.CmdBindVertexBuffer(&r.vertexBuffer.Buffer, 0)
	cmd.CmdBindIndexBuffer(&r.indexBuffer.Buffer, 0, r.config.Indices.IndexType())
	cmd.CmdBindDescriptorSets(vk.PipelineBindPointGraphics, r.PipelineLayout, 0, r.descriptorSets[frame.Index])
	cmd.CmdDrawIndexed(r.config.Indices.IndexCount(), 1, 0, 0, 0)
	cmd.CmdEndRenderPass()

	// The pass left the draw image in transfer-src layout.
	cmd.CmdTransitionImageLayout(swapchainImage, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	cmd.CmdBlitImage(drawImage, swapchainImage)
	cmd.CmdTransitionImageLayout(swapchainImage, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc)

	return cmd.End()
}

// Destroy tears the whole context down in reverse dependency order. Partially
// constructed contexts are safe to destroy.
func (r *RenderContext) Destroy() {
	if r.Device != nil {
		r.Device.WaitIdle()
	}

	r.destroyFrames()
	r.destroyFrameTargets()

	if r.Pipeline != nil {
		r.Pipeline.Destroy()
	}
	if r.PipelineCache != nil {
		r.PipelineCache.Destroy()
	}
	if r.PipelineLayout != nil {
		r.PipelineLayout.Destroy()
	}
	if r.descriptorPool != nil {
		r.descriptorPool.Destroy()
	}
	if r.descriptorSetLayout != nil {
		r.descriptorSetLayout.Destroy()
	}
	for _, ub := range r.uniformBuffers {
		if ub != nil {
			ub.Destroy()
		}
	}
	r.uniformBuffers = nil

	if r.textureView != nil {
		r.textureView.Destroy()
	}
	if r.texture != nil {
		r.texture.Destroy()
	}
	if r.sampler != nil {
		r.sampler.Destroy()
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Destroy()
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Destroy()
	}

	if r.RenderPass != nil {
		r.RenderPass.Destroy()
	}
	if r.Swapchain != nil {
		r.Swapchain.Destroy()
	}
	if r.ResourceManager != nil {
		r.ResourceManager.Destroy()
	}
	if r.CommandPool != nil {
		r.CommandPool.Destroy()
	}
	if r.Device != nil {
		r.Device.Destroy()
	}
	if r.Instance != nil {
		r.Instance.Destroy()
	}
}
