package vulka

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type VKPresentModes []vk.PresentMode

func (v VKPresentModes) Filter(f vk.PresentMode) VKPresentModes {
	ret := make(VKPresentModes, 0)
	for _, s := range v {
		if f == s {
			ret = append(ret, s)
		}
	}
	return ret
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		s.Deref()
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// PhysicalDevice represents one adapter. Everything it answers is a
// read-only query against the hardware; repeated queries are cached.
type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties

	memoryTypes   []vk.MemoryType
	extensions    []string
	queueFamilies QueueFamilySlice
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.PresentMode, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, err
	}

	f := make([]vk.SurfaceFormat, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, err
	}
	caps.Deref()

	return &caps, nil
}

// SurfaceExtentClamped answers what extent a new swapchain for the surface
// should use. When the driver fixes the extent, that wins unconditionally;
// otherwise the requested size is clamped into the supported range.
func (p *PhysicalDevice) SurfaceExtentClamped(surface vk.Surface, width, height uint32) (vk.Extent2D, error) {
	caps, err := p.GetSurfaceCapabilities(surface)
	if err != nil {
		return vk.Extent2D{}, err
	}
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return clampExtent(caps.CurrentExtent, caps.MinImageExtent, caps.MaxImageExtent, width, height), nil
}

func clampExtent(current, min, max vk.Extent2D, width, height uint32) vk.Extent2D {
	if current.Width != vk.MaxUint32 {
		return current
	}
	return vk.Extent2D{
		Width:  clampUint32(width, min.Width, max.Width),
		Height: clampUint32(height, min.Height, max.Height),
	}
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IdealSwapchainImageCount returns one more than the surface minimum, capped
// at the surface maximum when the driver reports one.
func (p *PhysicalDevice) IdealSwapchainImageCount(surface vk.Surface) (int, error) {
	caps, err := p.GetSurfaceCapabilities(surface)
	if err != nil {
		return 0, err
	}
	return idealImageCount(caps.MinImageCount, caps.MaxImageCount), nil
}

func idealImageCount(min, max uint32) int {
	count := min + 1
	if max > 0 && count > max {
		count = max
	}
	return int(count)
}

// QueueFamilies enumerates the queue families of this adapter. The result is
// cached; the same family objects are returned on every call.
func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	if p.queueFamilies != nil {
		return p.queueFamilies, nil
	}

	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, nil
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}
		ret[i].VKQueueFamilyProperties.Deref()
	}

	p.queueFamilies = ret
	return ret, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDeviceWithOptions instantiates a logical device over the given
// queue families, requesting every queue each family advertises. The family
// objects are attached to the new device once it exists, so queue lookups on
// them resolve against this device.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(qfs QueueFamilySlice, options *CreateDeviceOptions) (*Device, error) {

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(qfs))
	for j, q := range qfs {
		count := q.QueueCount()
		priorities := make([]float32, count)
		for i := range priorities {
			priorities[i] = 1.0
		}

		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       uint32(count),
			PQueuePriorities: priorities,
		}
	}

	deviceFeatures := p.VKPhysicalDeviceFeatures()

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(qfs)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{deviceFeatures},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device

	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, errors.Wrap(err, "error creating logical device")
	}

	device := &Device{
		PhysicalDevice: p,
		VKDevice:       ldevice,
		QueueFamilies:  qfs,
	}

	// Two-phase construction: the families were handed out by the adapter,
	// but their queues live on the device created from them.
	for _, q := range qfs {
		q.attach(device)
	}

	return device, nil
}

func (p *PhysicalDevice) CreateLogicalDevice(qfs QueueFamilySlice) (*Device, error) {
	return p.CreateLogicalDeviceWithOptions(qfs, nil)
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	return deviceFeatures
}

// MaxSamplerAnisotropy returns the device limit for sampler anisotropy.
func (p *PhysicalDevice) MaxSamplerAnisotropy() float32 {
	limits := p.VKPhysicalDeviceProperties.Limits
	limits.Deref()
	return limits.MaxSamplerAnisotropy
}

type MemoryTypeSlice []vk.MemoryType

func (m MemoryTypeSlice) Filter(f func(properties vk.MemoryPropertyFlagBits) bool) MemoryTypeSlice {
	res := make(MemoryTypeSlice, 0)
	for i := 0; i < len(m); i++ {
		if f(vk.MemoryPropertyFlagBits(m[i].PropertyFlags)) {
			res = append(res, m[i])
		}
	}
	return res
}

func (m MemoryTypeSlice) NumHostCoherent() int {
	return len(m.Filter(func(properties vk.MemoryPropertyFlagBits) bool {
		return properties&vk.MemoryPropertyHostCoherentBit != 0
	}))
}

func (m MemoryTypeSlice) NumHostVisible() int {
	return len(m.Filter(func(properties vk.MemoryPropertyFlagBits) bool {
		return properties&vk.MemoryPropertyHostVisibleBit != 0
	}))
}

// MemoryTypes returns the adapter's memory types, cached after the first call.
func (p *PhysicalDevice) MemoryTypes() MemoryTypeSlice {
	if p.memoryTypes != nil {
		return p.memoryTypes
	}

	mp := p.VKPhysicalDeviceMemoryProperties()
	mp.Deref()

	ret := make([]vk.MemoryType, 0, mp.MemoryTypeCount)

	var i uint32
	for i = 0; i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret = append(ret, mt)
	}

	p.memoryTypes = ret
	return ret
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties

	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	return memoryProperties
}

// FindMemoryType selects the first memory type whose bit is set in
// memoryTypeBits and whose property flags contain all the requested
// properties. Allocation must not proceed when no type qualifies.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	return findMemoryType(p.MemoryTypes(), memoryTypeBits, properties)
}

func findMemoryType(types []vk.MemoryType, memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	for i, mt := range types {
		if memoryTypeBits&(1<<uint32(i)) != 0 &&
			vk.MemoryPropertyFlagBits(mt.PropertyFlags)&properties == properties {
			return uint32(i), nil
		}
	}
	return 0, errors.Newf("no matching memory type found for bits 0x%x", memoryTypeBits)
}

// SupportedExtensions returns the device extensions the adapter supports,
// cached after the first call.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	if p.extensions != nil {
		return p.extensions, nil
	}

	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, err
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, e := range ext {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}

	p.extensions = names
	return names, nil
}

// SupportsExtension reports whether the adapter supports a device extension.
func (p *PhysicalDevice) SupportsExtension(name string) (bool, error) {
	exts, err := p.SupportedExtensions()
	if err != nil {
		return false, err
	}
	for _, e := range exts {
		if e == name {
			return true, nil
		}
	}
	return false, nil
}
