package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipeline wraps a native graphics pipeline. It keeps a reference to
// the render pass it was compiled against; the pass outlives the pipeline.
type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
	Layout     *PipelineLayout
	RenderPass *RenderPass
}

func (p *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
}

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	var pipelineCacheCreate = vk.PipelineCacheCreateInfo{}
	pipelineCacheCreate.SType = vk.StructureTypePipelineCacheCreateInfo

	var pipelineCache vk.PipelineCache

	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, err
	}

	return &PipelineCache{Device: d, VKPipelineCache: pipelineCache}, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

// CreateGraphicsPipeline compiles one pipeline from the config. A nil cache
// is allowed.
func (d *Device) CreateGraphicsPipeline(cache *PipelineCache, config *GraphicsPipelineConfig, extent vk.Extent2D) (*GraphicsPipeline, error) {
	if config.RenderPass == nil {
		return nil, errors.New("graphics pipeline config has no render pass")
	}

	createInfo := config.VKGraphicsPipelineCreateInfo(extent)

	var vkCache vk.PipelineCache
	if cache != nil {
		vkCache = cache.VKPipelineCache
	}

	pipelines := make([]vk.Pipeline, 1)
	err := vk.Error(vk.CreateGraphicsPipelines(
		d.VKDevice, vkCache,
		1, []vk.GraphicsPipelineCreateInfo{createInfo},
		nil, pipelines))
	if err != nil {
		return nil, errors.Wrap(err, "error creating graphics pipeline")
	}

	return &GraphicsPipeline{
		Device:     d,
		VKPipeline: pipelines[0],
		Layout:     config.PipelineLayout,
		RenderPass: config.RenderPass,
	}, nil
}
