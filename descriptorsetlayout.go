package vulka

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout describes the layout of a descriptor set
type DescriptorSetLayout struct {
	Device                        *Device
	VKDescriptorSetLayout         vk.DescriptorSetLayout
	VKDescriptorSetLayoutBindings []vk.DescriptorSetLayoutBinding
}

// Destroy destroys this descriptor set layout
func (d *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(d.Device.VKDevice, d.VKDescriptorSetLayout, nil)
}

// DescriptorSetLayoutBuilder mints binding parts under the same protocol as
// the render pass builder: provisional ids while describing, dense indices
// in list order at Build, panics on parts from another builder or listed
// twice.
type DescriptorSetLayoutBuilder struct {
	serial uint64
	nextID int
}

func NewDescriptorSetLayoutBuilder() *DescriptorSetLayoutBuilder {
	return &DescriptorSetLayoutBuilder{serial: nextBuilderSerial()}
}

// LayoutBinding describes one binding of the layout under construction.
type LayoutBinding struct {
	id             partID
	descriptorType vk.DescriptorType
	count          int
	stages         vk.ShaderStageFlags
}

func (b *DescriptorSetLayoutBuilder) Binding() *LayoutBinding {
	id := partID{builder: b.serial, id: b.nextID}
	b.nextID++
	return &LayoutBinding{id: id, count: 1}
}

// Descriptor sets the descriptor type and array size of the binding.
func (lb *LayoutBinding) Descriptor(dtype vk.DescriptorType, count int) *LayoutBinding {
	lb.descriptorType = dtype
	lb.count = count
	return lb
}

// Stages sets the shader stages that can see the binding.
func (lb *LayoutBinding) Stages(flags vk.ShaderStageFlags) *LayoutBinding {
	lb.stages = flags
	return lb
}

// Build resolves the bindings to their list positions and creates the
// native layout.
func (b *DescriptorSetLayoutBuilder) Build(device *Device, bindings []*LayoutBinding) (*DescriptorSetLayout, error) {
	vkBindings := b.resolve(bindings)

	createInfo := &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(vkBindings)),
		PBindings:    vkBindings,
	}

	var layout vk.DescriptorSetLayout
	err := vk.Error(vk.CreateDescriptorSetLayout(device.VKDevice, createInfo, nil, &layout))
	if err != nil {
		return nil, errors.Wrap(err, "error creating descriptor set layout")
	}

	return &DescriptorSetLayout{
		Device:                        device,
		VKDescriptorSetLayout:         layout,
		VKDescriptorSetLayoutBindings: vkBindings,
	}, nil
}

func (b *DescriptorSetLayoutBuilder) resolve(bindings []*LayoutBinding) []vk.DescriptorSetLayoutBinding {
	seen := make(map[partID]uint32, len(bindings))
	vkBindings := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, lb := range bindings {
		if lb.id.builder != b.serial {
			panic("descriptor set layout binding was minted by another builder")
		}
		if _, dup := seen[lb.id]; dup {
			panic("descriptor set layout binding listed twice")
		}
		seen[lb.id] = uint32(i)

		if lb.count < 1 {
			panic(fmt.Sprintf("descriptor set layout binding %d has descriptor count %d", i, lb.count))
		}

		vkBindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  lb.descriptorType,
			DescriptorCount: uint32(lb.count),
			StageFlags:      lb.stages,
		}
	}
	return vkBindings
}
