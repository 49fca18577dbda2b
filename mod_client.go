package mandelbulb

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientModule owns the window and the GPU: glfw + wgpu setup, material
// upload into the RenderMaterials table, and the per-frame draw that
// consumes the queued uniform writes. Install it before RayMarchingModule
// so uploads run ahead of buffer preparation within the Prepare stage.
type ClientModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
}

type quadVertex struct {
	pos [4]float32 `mandelbulb:"layout" location:"0" format:"float4"`
}

// screenQuadState carries the fullscreen quad the material is drawn on.
type screenQuadState struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

// materialUploads is the render-world list of material assets extracted
// this frame, keyed by handle. Replaced wholesale each extraction; the
// upload system skips handles that already have a GPU resource.
type materialUploads struct {
	assets map[AssetId]MaterialAsset
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	windowState := createWindowState(mod.WindowWidth, mod.WindowHeight, mod.WindowTitle)
	gpuState := createGpuState(windowState, app.Logger())

	cmd.AddResources(windowState)

	quad := createScreenQuad(gpuState)
	app.RenderCommands().AddResources(
		gpuState,
		quad,
		&materialUploads{assets: make(map[AssetId]MaterialAsset)},
	)

	app.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude),
	)
	app.UseSystem(
		System(viewParamsSystem).
			InStage(Prelude),
	)
	app.UseSystem(
		System(extractMaterialAssetsSystem).
			InStage(Extract),
	)
	app.UseSystem(
		System(uploadMaterialsSystem).
			InStage(Prepare),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

var screenQuadVertices = []quadVertex{
	{pos: [4]float32{-1., 1., 0., 1.}},
	{pos: [4]float32{1., 1., 0., 1.}},
	{pos: [4]float32{-1., -1., 0., 1.}},
	{pos: [4]float32{1., -1., 0., 1.}},
}

var screenQuadIndices = []uint16{0, 2, 1, 1, 2, 3}

func createScreenQuad(gpuState *GpuState) *screenQuadState {
	vertexBuf, indexBuf := createVertexIndexBuffers(screenQuadVertices, screenQuadIndices, gpuState.device)
	return &screenQuadState{
		vertexBuffer: vertexBuf,
		indexBuffer:  indexBuf,
		indexCount:   uint32(len(screenQuadIndices)),
	}
}

func windowEventsSystem(state *WindowState, control *AppControl) {
	if state.windowGlfw.ShouldClose() {
		control.Quit = true
		return
	}
	glfw.PollEvents()

	state.WindowWidth, state.WindowHeight = state.windowGlfw.GetFramebufferSize()
}

// viewParamsSystem keeps the Parameter Store's aspect ratio in sync with
// the window, simulation-side, so extraction picks it up like any other
// parameter.
func viewParamsSystem(state *WindowState, view *ViewParams) {
	if state.WindowHeight <= 0 {
		return
	}
	view.Set(ViewParams{
		AspectRatio: float32(state.WindowWidth) / float32(state.WindowHeight),
	})
}

// extractMaterialAssetsSystem mirrors the shader assets referenced by
// simulation entities into the render world, where the upload system can
// reach them without touching simulation state.
func extractMaterialAssetsSystem(cmd *Commands, rcmd *RenderCommands, assets *AssetServer) {
	uploads := &materialUploads{assets: make(map[AssetId]MaterialAsset)}

	MakeQuery1[MaterialComponent](cmd).Map(func(eid EntityId, mat *MaterialComponent) bool {
		if asset, ok := assets.material(mat.Handle); ok {
			uploads.assets[mat.Handle] = asset
		}
		return true
	})

	rcmd.ReplaceResource(uploads)
}

// uploadMaterialsSystem turns extracted material assets into GPU resources:
// pipeline, uniform buffer seeded from the descriptor defaults, bind group.
// Runs once per handle; already-prepared handles are skipped.
func uploadMaterialsSystem(gpuState *GpuState, materials *RenderMaterials, uploads *materialUploads) {
	for id, asset := range uploads.assets {
		if _, ok := materials.get(id); ok {
			continue
		}

		if err := validateMaterialUniformLayout(); err != nil {
			// The declared layout no longer matches the shader compiler's
			// rules; writing the buffer would corrupt rendering silently.
			panic(err)
		}

		pipeline := createRenderPipeline(asset.shaderName, asset.shaderListing, quadVertex{}, gpuState)

		buffer := createUniformBuffer(asset.shaderName, materialUniformFromDescriptor(asset.descriptor).encode(), gpuState)

		bindGroupLayout := pipeline.GetBindGroupLayout(0)
		bindGroup, err := gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: buffer, Size: wgpu.WholeSize},
			},
		})
		bindGroupLayout.Release()
		if err != nil {
			panic(err)
		}

		materials.insert(id, &PreparedMaterial{
			pipeline:  pipeline,
			bindGroup: bindGroup,
			bindings: []UniformBinding{
				{Binding: 0, Buffer: buffer, Size: materialUniformSize},
			},
		})
		gpuState.logger.Infof("Uploaded material %s (%s)", id, asset.shaderName)
	}
}

func materialUniformFromDescriptor(mat RayMarchingMaterial) materialUniform {
	return materialUniform{
		CameraPosition:   mat.CameraPosition,
		CameraForward:    mat.CameraForward,
		CameraHorizontal: mat.CameraHorizontal,
		CameraVertical:   mat.CameraVertical,
		AspectRatio:      mat.AspectRatio,
		Power:            mat.Power,
		MaxIterations:    mat.MaxIterations,
		Bailout:          mat.Bailout,
		NumSteps:         mat.NumSteps,
		MinDist:          mat.MinDist,
		MaxDist:          mat.MaxDist,
		Zoom:             mat.Zoom,
	}
}

// renderSystem flushes the queued uniform writes to the GPU queue and draws
// every mirror entity with a prepared material onto the screen quad.
func renderSystem(rcmd *RenderCommands, gpuState *GpuState, materials *RenderMaterials, writes *WriteQueue, quad *screenQuadState) {
	for _, w := range writes.Drain() {
		if w.Buffer == nil {
			continue
		}
		if err := gpuState.queue.WriteBuffer(w.Buffer, w.Offset, w.Data); err != nil {
			panic(err)
		}
	}

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()

	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.0, G: 0.0, B: 0.0, A: 1.0},
			},
		},
	})
	defer renderPass.Release()

	MakeQuery1[MaterialComponent](rcmd).Map(func(eid EntityId, mat *MaterialComponent) bool {
		prepared, ok := materials.get(mat.Handle)
		if !ok {
			return true
		}

		renderPass.SetPipeline(prepared.pipeline)
		renderPass.SetBindGroup(0, prepared.bindGroup, nil)
		renderPass.SetIndexBuffer(quad.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.SetVertexBuffer(0, quad.vertexBuffer, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(quad.indexCount, 1, 0, 0, 0)
		return true
	})

	if err := renderPass.End(); err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}
