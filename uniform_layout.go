package mandelbulb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// materialUniform is the per-frame uniform block: the extracted camera basis
// concatenated with the view and fractal parameters. Its byte layout is the
// binary contract shared with the Camera struct in ray_marching.wgsl; field
// order, offsets and padding must match the shader exactly or rendering
// corrupts silently.
type materialUniform struct {
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

type uniformKind int

const (
	uniformVec3 uniformKind = iota
	uniformF32
	uniformU32
)

type uniformField struct {
	name   string
	kind   uniformKind
	offset uint32
	size   uint32
}

// materialUniformLayout is the explicit schema of the block under WGSL
// uniform address space rules: vec3<f32> is 16-byte aligned with size 12,
// scalars are 4-byte aligned and pack into the trailing pad of a preceding
// vec3, and the struct size rounds up to the struct alignment.
var materialUniformLayout = []uniformField{
	{name: "camera_position", kind: uniformVec3, offset: 0, size: 12},
	{name: "camera_forward", kind: uniformVec3, offset: 16, size: 12},
	{name: "camera_horizontal", kind: uniformVec3, offset: 32, size: 12},
	{name: "camera_vertical", kind: uniformVec3, offset: 48, size: 12},
	{name: "aspect_ratio", kind: uniformF32, offset: 60, size: 4},
	{name: "power", kind: uniformF32, offset: 64, size: 4},
	{name: "max_iterations", kind: uniformU32, offset: 68, size: 4},
	{name: "bailout", kind: uniformF32, offset: 72, size: 4},
	{name: "num_steps", kind: uniformU32, offset: 76, size: 4},
	{name: "min_dist", kind: uniformF32, offset: 80, size: 4},
	{name: "max_dist", kind: uniformF32, offset: 84, size: 4},
	{name: "zoom", kind: uniformF32, offset: 88, size: 4},
}

// materialUniformSize is the full buffer size written each frame.
const materialUniformSize = 96

// encode serializes the block against the layout table, little-endian.
// Every frame overwrites the whole buffer, so the result always has the
// full declared size. A mismatch between the table and the fields written
// here is a programming error and panics.
func (u materialUniform) encode() []byte {
	buf := make([]byte, materialUniformSize)

	enc := uniformEncoder{buf: buf}
	enc.putVec3("camera_position", u.CameraPosition)
	enc.putVec3("camera_forward", u.CameraForward)
	enc.putVec3("camera_horizontal", u.CameraHorizontal)
	enc.putVec3("camera_vertical", u.CameraVertical)
	enc.putF32("aspect_ratio", u.AspectRatio)
	enc.putF32("power", u.Power)
	enc.putU32("max_iterations", u.MaxIterations)
	enc.putF32("bailout", u.Bailout)
	enc.putU32("num_steps", u.NumSteps)
	enc.putF32("min_dist", u.MinDist)
	enc.putF32("max_dist", u.MaxDist)
	enc.putF32("zoom", u.Zoom)
	enc.finish()

	return buf
}

type uniformEncoder struct {
	buf  []byte
	next int
}

func (e *uniformEncoder) field(name string, kind uniformKind) uniformField {
	if e.next >= len(materialUniformLayout) {
		panic(fmt.Sprintf("uniform encode: no layout entry left for %s", name))
	}
	f := materialUniformLayout[e.next]
	e.next++
	if f.name != name || f.kind != kind {
		panic(fmt.Sprintf("uniform encode: wrote %s where layout declares %s", name, f.name))
	}
	return f
}

func (e *uniformEncoder) putVec3(name string, v mgl32.Vec3) {
	f := e.field(name, uniformVec3)
	binary.LittleEndian.PutUint32(e.buf[f.offset:], math.Float32bits(v.X()))
	binary.LittleEndian.PutUint32(e.buf[f.offset+4:], math.Float32bits(v.Y()))
	binary.LittleEndian.PutUint32(e.buf[f.offset+8:], math.Float32bits(v.Z()))
}

func (e *uniformEncoder) putF32(name string, v float32) {
	f := e.field(name, uniformF32)
	binary.LittleEndian.PutUint32(e.buf[f.offset:], math.Float32bits(v))
}

func (e *uniformEncoder) putU32(name string, v uint32) {
	f := e.field(name, uniformU32)
	binary.LittleEndian.PutUint32(e.buf[f.offset:], v)
}

func (e *uniformEncoder) finish() {
	if e.next != len(materialUniformLayout) {
		panic(fmt.Sprintf("uniform encode: %d of %d layout fields written", e.next, len(materialUniformLayout)))
	}
}

// validateMaterialUniformLayout recomputes every offset from the WGSL rules
// and compares it against the declared table. Called once at material upload
// and from the tests; a mismatch means the table drifted from the rules the
// shader compiler applies, which would corrupt rendering without any runtime
// signal.
func validateMaterialUniformLayout() error {
	offset := uint32(0)
	for _, f := range materialUniformLayout {
		var align, size uint32
		switch f.kind {
		case uniformVec3:
			align, size = 16, 12
		case uniformF32, uniformU32:
			align, size = 4, 4
		default:
			return fmt.Errorf("uniform layout: %s has unknown kind %d", f.name, f.kind)
		}

		offset = alignUp(offset, align)
		if f.offset != offset {
			return fmt.Errorf("uniform layout: %s declared at offset %d, rules place it at %d", f.name, f.offset, offset)
		}
		if f.size != size {
			return fmt.Errorf("uniform layout: %s declared size %d, rules say %d", f.name, f.size, size)
		}
		offset += size
	}

	// Struct alignment is the max member alignment (16 here via the vec3s).
	if total := alignUp(offset, 16); total != materialUniformSize {
		return fmt.Errorf("uniform layout: total size %d, declared %d", total, materialUniformSize)
	}
	return nil
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}
