package vulka

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestDescriptorSetLayoutBindingsFollowListOrder(t *testing.T) {
	b := NewDescriptorSetLayoutBuilder()

	// Minted sampler-first, listed uniform-first.
	sampler := b.Binding().
		Descriptor(vk.DescriptorTypeCombinedImageSampler, 1).
		Stages(vk.ShaderStageFlags(vk.ShaderStageFragmentBit))
	uniform := b.Binding().
		Descriptor(vk.DescriptorTypeUniformBuffer, 1).
		Stages(vk.ShaderStageFlags(vk.ShaderStageVertexBit))

	bindings := b.resolve([]*LayoutBinding{uniform, sampler})

	if len(bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(bindings))
	}
	if bindings[0].Binding != 0 || bindings[0].DescriptorType != vk.DescriptorTypeUniformBuffer {
		t.Errorf("binding 0 is %+v, want uniform buffer at 0", bindings[0])
	}
	if bindings[1].Binding != 1 || bindings[1].DescriptorType != vk.DescriptorTypeCombinedImageSampler {
		t.Errorf("binding 1 is %+v, want combined image sampler at 1", bindings[1])
	}
	if bindings[1].DescriptorCount != 1 {
		t.Errorf("binding 1 descriptor count %d, want 1", bindings[1].DescriptorCount)
	}
}

func TestDescriptorSetLayoutPanicsOnForeignBinding(t *testing.T) {
	b1 := NewDescriptorSetLayoutBuilder()
	b2 := NewDescriptorSetLayoutBuilder()

	foreign := b2.Binding().Descriptor(vk.DescriptorTypeUniformBuffer, 1)

	mustPanic(t, func() {
		b1.resolve([]*LayoutBinding{foreign})
	})
}

func TestDescriptorSetLayoutPanicsOnDuplicateBinding(t *testing.T) {
	b := NewDescriptorSetLayoutBuilder()
	binding := b.Binding().Descriptor(vk.DescriptorTypeUniformBuffer, 1)

	mustPanic(t, func() {
		b.resolve([]*LayoutBinding{binding, binding})
	})
}

func TestDescriptorSetLayoutPanicsOnZeroCount(t *testing.T) {
	b := NewDescriptorSetLayoutBuilder()
	binding := b.Binding().Descriptor(vk.DescriptorTypeUniformBuffer, 0)

	mustPanic(t, func() {
		b.resolve([]*LayoutBinding{binding})
	})
}
