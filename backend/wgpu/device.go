// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kiosk"
)

// initGPU creates the HAL instance, selects an adapter, opens a device and
// builds the blit pipeline.
func (r *Renderer) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}
	r.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("wgpu: open device: %w", err)
	}
	r.device = openDev.Device
	r.queue = openDev.Queue

	if err := r.createPipelines(); err != nil {
		return err
	}
	kiosk.Logger().Info("wgpu renderer initialized", "adapter", selected.Info.Name)
	return nil
}

// SetDeviceProvider switches the renderer onto a shared HAL device from a
// host application (a gogpu app exposing its GPU context, typically). The
// provider must expose hal.Device and hal.Queue through HalDevice and
// HalQueue. Textures uploaded before the switch become invalid; call this
// before the first frame.
func (r *Renderer) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("wgpu: provider HalQueue is not hal.Queue")
	}

	r.destroyPipelines()
	if !r.externalDevice && r.device != nil {
		r.device.Destroy()
	}
	if r.instance != nil {
		r.instance.Destroy()
		r.instance = nil
	}

	r.device = device
	r.queue = queue
	r.externalDevice = true

	if err := r.createPipelines(); err != nil {
		r.device = nil
		r.queue = nil
		return fmt.Errorf("wgpu: create pipelines with shared device: %w", err)
	}
	kiosk.Logger().Info("wgpu renderer using shared GPU device")
	return nil
}

// Close releases the pipeline and, unless the device is shared, the device
// and instance. The renderer is unusable afterwards.
func (r *Renderer) Close() {
	r.draws = nil
	r.target = nil
	r.inPass = false
	r.destroyPipelines()
	if !r.externalDevice {
		if r.device != nil {
			r.device.Destroy()
		}
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.instance = nil
	r.queue = nil
	r.externalDevice = false
}

func (r *Renderer) createPipelines() error {
	spirv, err := compileBlitShader()
	if err != nil {
		return err
	}
	module, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "kiosk_blit",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}
	r.shaderModule = module

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kiosk_blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: blitParamsSize}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "kiosk_blit_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "kiosk_blit_pipeline", Layout: r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shaderModule, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}
	r.pipeline = pipeline

	return nil
}

func (r *Renderer) destroyPipelines() {
	if r.device == nil {
		return
	}
	if r.pipeline != nil {
		r.device.DestroyComputePipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shaderModule != nil {
		r.device.DestroyShaderModule(r.shaderModule)
		r.shaderModule = nil
	}
}
