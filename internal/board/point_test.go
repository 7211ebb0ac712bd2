package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeometryNeighbors(t *testing.T) {
	t.Parallel()

	g := Geometry{Width: 3, Height: 3, MineCount: 1}

	tests := []struct {
		name string
		p    Point
		want []Point
	}{
		{
			name: "center",
			p:    Point{1, 1},
			want: []Point{
				{0, 0}, {1, 0}, {2, 0},
				{0, 1}, {2, 1},
				{0, 2}, {1, 2}, {2, 2},
			},
		},
		{
			name: "corner",
			p:    Point{0, 0},
			want: []Point{{1, 0}, {0, 1}, {1, 1}},
		},
		{
			name: "edge",
			p:    Point{1, 0},
			want: []Point{{0, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, g.Neighbors(test.p))
		})
	}
}

func TestGeometryIndexRoundTrip(t *testing.T) {
	t.Parallel()

	g := Geometry{Width: 4, Height: 3, MineCount: 1}
	for i := range g.CellCount() {
		p := g.PointAt(i)
		require.True(t, g.Contains(p))
		require.Equal(t, i, g.Index(p))
	}
}

func TestGeometryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"beginner", Geometry{9, 9, 10}, false},
		{"zero width", Geometry{0, 9, 10}, true},
		{"no mines", Geometry{9, 9, 0}, true},
		{"full of mines", Geometry{3, 3, 9}, true},
		{"almost full", Geometry{3, 3, 8}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.g.Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSnapshotString(t *testing.T) {
	t.Parallel()

	s := Snapshot{
		Geometry: Geometry{Width: 2, Height: 2, MineCount: 1},
		Cells:    []CellState{1, Flagged, Unknown, 0},
	}
	require.Equal(t, "1 * \n  0 \n", s.String())
}
