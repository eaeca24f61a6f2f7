package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/editor"
	"github.com/printdeck/printdeck/internal/geometry"
)

func TestWriteProxySTL(t *testing.T) {
	ed := editor.New(geometry.NewBox3(geometry.Vec3{}, geometry.V3(250, 210, 220)))

	m := document.NewModel()
	bounds := geometry.NewBox3(geometry.Vec3{}, geometry.V3(10, 10, 10))
	obj := m.AddObject("cube")
	obj.AddVolume("body", document.VolumeTypeModel, "mesh", bounds)
	obj.AddVolume("hole", document.VolumeTypeModifier, "mesh", bounds)
	inst := obj.AddInstance()
	inst.Transform.Offset = geometry.V3(20, 0, 0)
	ed.SetModel(m)

	var buf bytes.Buffer
	require.NoError(t, writeProxySTL(&buf, "test-plate", ed.Volumes()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "solid test-plate\n"))
	assert.True(t, strings.HasSuffix(out, "endsolid test-plate\n"))

	// One model volume emits 12 triangles; the modifier is skipped.
	assert.Equal(t, 12, strings.Count(out, "facet normal"))
	assert.Equal(t, 36, strings.Count(out, "vertex"))

	// World placement carries the instance offset.
	assert.Contains(t, out, "vertex 30 10 10")
	assert.Contains(t, out, "vertex 20 0 0")
}

func TestWriteProxySTLEmptyPlate(t *testing.T) {
	ed := editor.New(geometry.NewBox3(geometry.Vec3{}, geometry.V3(250, 210, 220)))

	var buf bytes.Buffer
	require.NoError(t, writeProxySTL(&buf, "empty", ed.Volumes()))
	assert.Equal(t, "solid empty\nendsolid empty\n", buf.String())
}
