package mandelbulb

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent positions an entity in the simulation world. The
// orientation basis it exposes is taken from the rotation as-is; nothing
// here re-orthonormalizes it.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() TransformComponent {
	return TransformComponent{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Forward is the local -Z axis rotated into world space, so an identity
// transform faces -Z with +X right and +Y up.
func (t TransformComponent) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t TransformComponent) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (t TransformComponent) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// CameraComponent marks an entity as a camera. Extraction picks exactly one
// camera per frame: the lowest-id entity with Primary set, or the lowest-id
// camera overall when none is marked. Mark one camera Primary to make the
// choice independent of spawn order.
type CameraComponent struct {
	Primary bool
}
