package mandelbulb

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RayMarchingShaderPath is the one combined shader program for this
// material; both the vertex and the fragment stage come from it.
const RayMarchingShaderPath = "shaders/ray_marching.wgsl"

// RayMarchingMaterial declares the uniform block consumed by the ray
// marching shader. It is a plain value descriptor: the owner assigns
// fields, nothing here mutates them. The camera fields are placeholders
// overwritten every frame from the extracted camera transform; the fractal
// fields seed the GPU buffer until the Parameter Store snapshot takes over.
type RayMarchingMaterial struct {
	CameraPosition   mgl32.Vec3
	CameraForward    mgl32.Vec3
	CameraHorizontal mgl32.Vec3
	CameraVertical   mgl32.Vec3
	AspectRatio      float32
	Power            float32
	MaxIterations    uint32
	Bailout          float32
	NumSteps         uint32
	MinDist          float32
	MaxDist          float32
	Zoom             float32
}

// NewRayMarchingMaterial returns the documented defaults: camera at the
// origin facing -Z with a unit horizontal/vertical basis, aspect ratio 1.0,
// power 8.0, max_iterations 8, bailout 3.0, num_steps 64, min_dist 0.002,
// max_dist 1000.0, zoom 1.0.
func NewRayMarchingMaterial() RayMarchingMaterial {
	return RayMarchingMaterial{
		CameraPosition:   mgl32.Vec3{0.0, 0.0, 0.0},
		CameraForward:    mgl32.Vec3{0.0, 0.0, -1.0},
		CameraHorizontal: mgl32.Vec3{1.0, 0.0, 0.0},
		CameraVertical:   mgl32.Vec3{0.0, 1.0, 0.0},
		AspectRatio:      1.0,
		Power:            8.0,
		MaxIterations:    8,
		Bailout:          3.0,
		NumSteps:         64,
		MinDist:          0.002,
		MaxDist:          1000.0,
		Zoom:             1.0,
	}
}

// ShaderPath resolves the shader source for both stages.
func (RayMarchingMaterial) ShaderPath() string {
	return RayMarchingShaderPath
}

// MaterialComponent attaches a loaded material to an entity. Many entities
// may share one handle; they all map to the same GPU resource.
type MaterialComponent struct {
	Handle AssetId
}
