package mandelbulb

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestCreateVertexBufferLayout(t *testing.T) {
	type vertex struct {
		pos   [3]float32 `mandelbulb:"layout" location:"0" format:"float3"`
		color [4]float32 `mandelbulb:"layout" location:"1" format:"float4"`
	}

	layout := createVertexBufferLayout(vertex{})

	if layout.ArrayStride != 28 {
		t.Errorf("Expected stride 28, got %v", layout.ArrayStride)
	}
	if len(layout.Attributes) != 2 {
		t.Fatalf("Expected 2 attributes, got %v", len(layout.Attributes))
	}

	if layout.Attributes[0].Offset != 0 || layout.Attributes[0].ShaderLocation != 0 {
		t.Errorf("Unexpected first attribute: %+v", layout.Attributes[0])
	}
	if layout.Attributes[0].Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("Expected float3 format, got %v", layout.Attributes[0].Format)
	}

	if layout.Attributes[1].Offset != 12 || layout.Attributes[1].ShaderLocation != 1 {
		t.Errorf("Unexpected second attribute: %+v", layout.Attributes[1])
	}
	if layout.Attributes[1].Format != wgpu.VertexFormatFloat32x4 {
		t.Errorf("Expected float4 format, got %v", layout.Attributes[1].Format)
	}
}

func TestCreateVertexBufferLayout_SkipsUntaggedFields(t *testing.T) {
	type vertex struct {
		pos     [2]float32 `mandelbulb:"layout" location:"0" format:"float2"`
		padding [2]float32
	}

	layout := createVertexBufferLayout(vertex{})

	if len(layout.Attributes) != 1 {
		t.Errorf("Expected 1 attribute, got %v", len(layout.Attributes))
	}
	// Untagged fields still count towards the stride.
	if layout.ArrayStride != 16 {
		t.Errorf("Expected stride 16, got %v", layout.ArrayStride)
	}
}

func TestParseFormat_Unsupported(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for an unsupported format")
		}
	}()

	parseFormat("float1")
}

func TestScreenQuadGeometry(t *testing.T) {
	if len(screenQuadVertices) != 4 {
		t.Fatalf("Expected 4 quad vertices, got %v", len(screenQuadVertices))
	}
	if len(screenQuadIndices) != 6 {
		t.Fatalf("Expected 6 quad indices, got %v", len(screenQuadIndices))
	}
	for _, idx := range screenQuadIndices {
		if int(idx) >= len(screenQuadVertices) {
			t.Errorf("Index %v out of range", idx)
		}
	}
}
