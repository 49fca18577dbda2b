package mandelbulb

import (
	"os"

	"github.com/google/uuid"
)

type AssetId string

// AssetServer owns the CPU-side material assets. GPU resources built from
// them live in the render world's RenderMaterials table; the handle is the
// link between the two.
type AssetServer struct {
	materials map[AssetId]MaterialAsset
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(&AssetServer{
		materials: make(map[AssetId]MaterialAsset),
	})
}

type MaterialAsset struct {
	version       uint
	shaderName    string
	shaderListing string
	descriptor    RayMarchingMaterial
}

// LoadRayMarchingMaterial reads the material's shader source and registers
// the asset under a fresh handle.
func (server *AssetServer) LoadRayMarchingMaterial(mat RayMarchingMaterial) (MaterialComponent, error) {
	shaderData, err := os.ReadFile(mat.ShaderPath())
	if err != nil {
		return MaterialComponent{}, err
	}

	return server.addMaterial(mat.ShaderPath(), string(shaderData), mat), nil
}

func (server *AssetServer) addMaterial(shaderName string, shaderListing string, mat RayMarchingMaterial) MaterialComponent {
	id := makeAssetId()

	server.materials[id] = MaterialAsset{
		version:       0,
		shaderName:    shaderName,
		shaderListing: shaderListing,
		descriptor:    mat,
	}

	return MaterialComponent{Handle: id}
}

func (server *AssetServer) material(id AssetId) (MaterialAsset, bool) {
	asset, ok := server.materials[id]
	return asset, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
