package vulka

import (
	vk "github.com/vulkan-go/vulkan"
)

// Sampler wraps a native sampler.
type Sampler struct {
	Device    *Device
	VKSampler vk.Sampler
}

// CreateLinearSampler creates a repeat-addressed sampler with linear
// filtering and the device's maximum anisotropy.
func (d *Device) CreateLinearSampler() (*Sampler, error) {
	createInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           d.PhysicalDevice.MaxSamplerAnisotropy(),
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
	}

	var sampler vk.Sampler
	err := vk.Error(vk.CreateSampler(d.VKDevice, &createInfo, nil, &sampler))
	if err != nil {
		return nil, err
	}

	return &Sampler{Device: d, VKSampler: sampler}, nil
}

func (s *Sampler) Destroy() {
	vk.DestroySampler(s.Device.VKDevice, s.VKSampler, nil)
}
