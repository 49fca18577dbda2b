package mandelbulb

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformBinding is one buffer-backed binding slot of a prepared material.
type UniformBinding struct {
	Binding uint32
	Buffer  *wgpu.Buffer
	Size    uint64
}

// PreparedMaterial is the GPU-side resource a material handle resolves to
// once the client has uploaded it: pipeline, bind group and the uniform
// buffers behind its bindings.
type PreparedMaterial struct {
	pipeline  *wgpu.RenderPipeline
	bindGroup *wgpu.BindGroup
	bindings  []UniformBinding
}

// RenderMaterials is the render world's handle-to-GPU-resource table.
// Entries appear when the upload system finishes a material and persist
// across frames; the table itself is a long-lived render resource.
type RenderMaterials struct {
	prepared map[AssetId]*PreparedMaterial
}

func (m *RenderMaterials) get(id AssetId) (*PreparedMaterial, bool) {
	p, ok := m.prepared[id]
	return p, ok
}

func (m *RenderMaterials) insert(id AssetId, p *PreparedMaterial) {
	m.prepared[id] = p
}

// BufferWrite is one queued full-buffer overwrite, fire-and-forget. The
// render system hands drained writes to wgpu.Queue.WriteBuffer before the
// draw that consumes them.
type BufferWrite struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// WriteQueue collects buffer writes scheduled during the Prepare stage.
type WriteQueue struct {
	pending []BufferWrite
}

func (q *WriteQueue) Enqueue(w BufferWrite) {
	q.pending = append(q.pending, w)
}

// Drain returns the queued writes and clears the queue.
func (q *WriteQueue) Drain() []BufferWrite {
	writes := q.pending
	q.pending = nil
	return writes
}

// prepareRayMarchingSystem runs once per frame in the Prepare stage, after
// extraction. For every mirror entity carrying both a transform and a
// material handle it serializes the current camera pose plus the extracted
// parameters into the fixed uniform layout and schedules a full-buffer
// overwrite at offset 0. A handle with no uploaded GPU resource yet is
// skipped silently; the stage reruns next frame, which is the retry.
func prepareRayMarchingSystem(rcmd *RenderCommands, materials *RenderMaterials, params *extractedParams, writes *WriteQueue) {
	MakeQuery2[TransformComponent, MaterialComponent](rcmd).Map(func(eid EntityId, tr *TransformComponent, mat *MaterialComponent) bool {
		prepared, ok := materials.get(mat.Handle)
		if !ok {
			return true
		}

		block := materialUniform{
			CameraPosition:   tr.Position,
			CameraForward:    tr.Forward(),
			CameraHorizontal: tr.Right(),
			CameraVertical:   tr.Up(),
			AspectRatio:      params.view.AspectRatio,
			Power:            params.fractal.Power,
			MaxIterations:    params.fractal.MaxIterations,
			Bailout:          params.fractal.Bailout,
			NumSteps:         params.fractal.NumSteps,
			MinDist:          params.fractal.MinDist,
			MaxDist:          params.fractal.MaxDist,
			Zoom:             params.fractal.Zoom,
		}
		data := block.encode()

		for _, binding := range prepared.bindings {
			writes.Enqueue(BufferWrite{
				Buffer: binding.Buffer,
				Offset: 0,
				Data:   data,
			})
		}
		return true
	})
}
