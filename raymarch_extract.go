package mandelbulb

// extractRayMarchingSystem runs once per frame in the Extract stage, after
// the simulation stages and before any render-world processing. It copies
// the state rendering needs across the world boundary: a mirror entity for
// every material holder, the selected camera's transform, and the current
// Parameter Store snapshot. The copy is one-directional; nothing in the
// simulation world is touched.
func extractRayMarchingSystem(cmd *Commands, rcmd *RenderCommands, fractal *FractalParams, view *ViewParams) {
	camera, haveCamera := selectPrimaryCamera(cmd)

	MakeQuery1[MaterialComponent](cmd).Map(func(eid EntityId, mat *MaterialComponent) bool {
		if haveCamera {
			rcmd.InsertMirrorEntity(eid, *mat, camera)
		} else {
			// No camera this frame: mirror the handle alone. Preparation
			// skips entities without a transform, so the GPU buffer keeps
			// its last written frame.
			rcmd.InsertMirrorEntity(eid, *mat)
		}
		return true
	})

	rcmd.ReplaceResource(&extractedParams{
		fractal: fractal.Snapshot(),
		view:    view.Snapshot(),
	})
}

// selectPrimaryCamera picks the frame's camera deterministically: the
// lowest-id camera marked Primary, or the lowest-id camera overall when
// none is marked. Archetype iteration order must never influence which
// camera renders.
func selectPrimaryCamera(cmd *Commands) (TransformComponent, bool) {
	var best TransformComponent
	var bestId EntityId
	bestPrimary := false
	found := false

	MakeQuery2[CameraComponent, TransformComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, tr *TransformComponent) bool {
		better := false
		switch {
		case !found:
			better = true
		case cam.Primary && !bestPrimary:
			better = true
		case cam.Primary == bestPrimary && eid < bestId:
			better = true
		}

		if better {
			best = *tr
			bestId = eid
			bestPrimary = cam.Primary
			found = true
		}
		return true
	})

	return best, found
}
