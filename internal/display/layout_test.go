package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/position"
)

func fixture() (*position.Document, *position.Node, *position.Node) {
	doc := position.NewDocument(1280, 800)
	parent := doc.Body.Append(position.NewNode("toolbar", geom.Rect{X: 100, Y: 400, Width: 600, Height: 40}))
	anchor := parent.Append(position.NewNode("button", geom.Rect{X: 420, Y: 5, Width: 80, Height: 30}))
	return doc, parent, anchor
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in      string
		want    Placement
		wantErr bool
	}{
		{"top", PlacementTop, false},
		{" Bottom", PlacementBottom, false},
		{"", PlacementBottom, false},
		{"left", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlacement(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_PanelAndArrow(t *testing.T) {
	_, parent, anchor := fixture()

	g := Compute(anchor, parent, PlacementTop, DefaultOptions())

	assert.Equal(t, 600.0-420-80, g.PanelRight)
	assert.Equal(t, 80.0, g.PanelMinWidth)
	assert.Equal(t, 40.0+420-9, g.ArrowLeft)
	assert.Equal(t, 40.0+420-10, g.ArrowBorderLeft)
	assert.Equal(t, 40.0+15, g.ContainerOffset)
}

func TestCompute_PushRight(t *testing.T) {
	_, parent, anchor := fixture()
	opts := DefaultOptions()
	opts.PushRight = true

	g := Compute(anchor, parent, PlacementBottom, opts)
	assert.Equal(t, 600.0-420-80-10, g.PanelRight)
}

func TestCompute_HitProbeTop(t *testing.T) {
	_, parent, anchor := fixture()
	g := Compute(anchor, parent, PlacementTop, DefaultOptions())

	// Probe bottom hangs anchor height + spacing + slack below the
	// container bottom.
	reach := 30.0 + 15 + 10
	assert.Equal(t, geom.Rect{Y: 40 + reach - 190, Width: 600, Height: 190}, g.HitProbe)
	assert.Equal(t, 40+reach, g.HitProbe.Bottom())
}

func TestCompute_HitProbeBottom(t *testing.T) {
	doc, parent, anchor := fixture()
	g := Compute(anchor, parent, PlacementBottom, DefaultOptions())

	// Same anchoring as top: probe bottom is reach below the container.
	assert.Equal(t, geom.Rect{Y: 40 + 55 - 190, Width: 600, Height: 190}, g.HitProbe)
	assert.Equal(t, -95.0, g.HitProbe.Y)

	container, probe := g.Mount(parent)
	assert.Equal(t, geom.Rect{X: 100, Y: 455, Width: 600, Height: 40}, doc.Resolve(container))

	region := doc.Resolve(probe)
	assert.Equal(t, geom.Rect{X: 100, Y: 360, Width: 600, Height: 190}, region)

	// Moving from the button down into the container stays inside.
	button := doc.Resolve(anchor)
	assert.True(t, region.Contains(geom.Point{X: button.X + 1, Y: button.Y + 1}))
	assert.True(t, region.Contains(geom.Point{X: 110, Y: 455 + 39}))
}

func TestCompute_MissingElements(t *testing.T) {
	g := Compute(nil, nil, PlacementTop, DefaultOptions())
	assert.Equal(t, Geometry{Placement: PlacementTop}, g)
	assert.Equal(t, geom.Rect{}, g.ContainerBox(nil))
}

func TestGeometry_MountResolvesProbe(t *testing.T) {
	doc, parent, anchor := fixture()
	g := Compute(anchor, parent, PlacementTop, DefaultOptions())

	container, probe := g.Mount(parent)
	assert.Same(t, parent, container.Parent())
	assert.Same(t, container, probe.Parent())

	// Container sits spacing above the toolbar: 400 - 55 = 345.
	assert.Equal(t, geom.Rect{X: 100, Y: 345, Width: 600, Height: 40}, doc.Resolve(container))

	region := doc.Resolve(probe)
	assert.Equal(t, 100.0, region.X)
	assert.Equal(t, 345.0+40+55-190, region.Y)
	assert.Equal(t, 600.0, region.Width)

	// The probe covers the anchor so moving onto the button keeps the
	// pointer inside.
	button := doc.Resolve(anchor)
	assert.True(t, region.Contains(geom.Point{X: button.X + 1, Y: button.Y + 1}))
	assert.True(t, region.Contains(geom.Point{X: button.X + 1, Y: button.Bottom() - 1}))
}

func TestGeometry_PanelBox(t *testing.T) {
	_, parent, anchor := fixture()

	top := Compute(anchor, parent, PlacementTop, DefaultOptions())
	container := position.NewNode("c", top.ContainerBox(parent))
	assert.Equal(t, geom.Rect{X: 600 - 100 - 200, Y: 40 - 120, Width: 200, Height: 120},
		top.PanelBox(container, 200, 120))

	// Content narrower than the anchor is widened to the anchor width.
	bottom := Compute(anchor, parent, PlacementBottom, DefaultOptions())
	box := bottom.PanelBox(container, 50, 20)
	assert.Equal(t, 80.0, box.Width)
	assert.Equal(t, 0.0, box.Y)
}
