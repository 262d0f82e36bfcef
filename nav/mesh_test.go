package nav

import (
	"errors"
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// flatMesh is a 10x10 floor with its top at y=0 and one-unit cells.
func flatMesh() *Mesh {
	m := NewMesh(0, 0, 10, 10, 1)
	m.AddSurface(cube.Box(0, -1, 0, 10, 0, 10))
	return m
}

func TestFindPath(t *testing.T) {
	cases := []struct {
		name       string
		carve      []cube.BBox
		from, to   mgl32.Vec3
		wantStatus PathStatus
		wantErr    error
		wantEnd    mgl32.Vec3
	}{
		{
			name:       "straight",
			from:       mgl32.Vec3{0.5, 0, 0.5},
			to:         mgl32.Vec3{8.2, 0, 0.7},
			wantStatus: PathComplete,
			wantEnd:    mgl32.Vec3{8.2, 0, 0.7},
		},
		{
			name:       "around_gap",
			carve:      []cube.BBox{cube.Box(4, 0, 0, 5, 2, 8)},
			from:       mgl32.Vec3{0.5, 0, 0.5},
			to:         mgl32.Vec3{8.5, 0, 0.5},
			wantStatus: PathComplete,
			wantEnd:    mgl32.Vec3{8.5, 0, 0.5},
		},
		{
			name:       "wall_gives_partial",
			carve:      []cube.BBox{cube.Box(4, 0, 0, 5, 2, 10)},
			from:       mgl32.Vec3{0.5, 0, 0.5},
			to:         mgl32.Vec3{8.5, 0, 0.5},
			wantStatus: PathPartial,
			wantEnd:    mgl32.Vec3{3.5, 0, 0.5},
		},
		{
			name:       "start_off_mesh",
			from:       mgl32.Vec3{-3, 0, 0},
			to:         mgl32.Vec3{5, 0, 5},
			wantStatus: PathInvalid,
			wantErr:    ErrOffMesh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := flatMesh()
			for _, box := range tc.carve {
				m.Carve(box, 0)
			}
			path, status, err := m.FindPath(tc.from, tc.to)
			if status != tc.wantStatus {
				t.Fatalf("status %v, want %v", status, tc.wantStatus)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if len(path) == 0 {
				t.Fatal("expected corners")
			}
			if end := path[len(path)-1]; !end.ApproxEqual(tc.wantEnd) {
				t.Fatalf("path ends at %v, want %v", end, tc.wantEnd)
			}
			for _, p := range path {
				if !m.OnMesh(p) {
					t.Fatalf("corner %v is off the mesh", p)
				}
			}
		})
	}
}

func TestFindPathSameCell(t *testing.T) {
	m := flatMesh()
	path, status, err := m.FindPath(mgl32.Vec3{2.2, 0, 2.2}, mgl32.Vec3{2.8, 0, 2.6})
	if err != nil || status != PathComplete {
		t.Fatalf("status %v err %v", status, err)
	}
	if len(path) != 1 || path[0] != (mgl32.Vec3{2.8, 0, 2.6}) {
		t.Fatalf("path %v", path)
	}
}

func TestOnMesh(t *testing.T) {
	m := flatMesh()
	m.AddSurface(cube.Box(2, 0, 2, 3, 1, 3))

	cases := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"on_floor", mgl32.Vec3{5, 0, 5}, true},
		{"within_tolerance", mgl32.Vec3{5, 0.5, 5}, true},
		{"too_high", mgl32.Vec3{5, 1, 5}, false},
		{"outside_grid", mgl32.Vec3{11, 0, 5}, false},
		{"on_raised_step", mgl32.Vec3{2.5, 1, 2.5}, true},
		{"below_raised_step", mgl32.Vec3{2.5, 0, 2.5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.OnMesh(tc.p); got != tc.want {
				t.Fatalf("OnMesh(%v)=%v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestSample(t *testing.T) {
	m := flatMesh()
	m.Carve(cube.Box(5, 0, 5, 6, 1, 6), 0)

	cases := []struct {
		name   string
		p      mgl32.Vec3
		radius float32
		want   mgl32.Vec3
		ok     bool
	}{
		{"already_on_mesh", mgl32.Vec3{3, 0, 3}, 1, mgl32.Vec3{3, 0, 3}, true},
		{"above_floor", mgl32.Vec3{3, 1, 3}, 2, mgl32.Vec3{3, 0, 3}, true},
		{"past_edge", mgl32.Vec3{12, 0, 5}, 3, mgl32.Vec3{10, 0, 5}, true},
		{"past_max_z", mgl32.Vec3{4, 0, 11}, 3, mgl32.Vec3{4, 0, 10}, true},
		{"past_min_x", mgl32.Vec3{-2, 0, 5}, 3, mgl32.Vec3{0, 0, 5}, true},
		{"carved_cell_near_top_edge", mgl32.Vec3{5.5, 0, 5.8}, 1, mgl32.Vec3{5.5, 0, 6}, true},
		{"past_edge_too_far", mgl32.Vec3{12, 0, 5}, 1, mgl32.Vec3{}, false},
		{"inside_carved_cell", mgl32.Vec3{5.5, 0, 5.2}, 1, mgl32.Vec3{5.5, 0, 5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Sample(tc.p, tc.radius)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if got.Sub(tc.want).Len() > 0.01 {
				t.Fatalf("Sample=%v, want %v", got, tc.want)
			}
			if !m.OnMesh(got) {
				t.Fatalf("sampled point %v is not on the mesh", got)
			}
		})
	}
}

func TestMeshVersion(t *testing.T) {
	m := NewMesh(0, 0, 4, 4, 1)
	v := m.Version()
	m.AddSurface(cube.Box(0, -1, 0, 4, 0, 4))
	m.Carve(cube.Box(1, 0, 1, 2, 1, 2), 0.25)
	m.RemoveSurface(cube.Box(3, -1, 3, 4, 0, 4))
	if m.Version() != v+3 {
		t.Fatalf("version %d, want %d", m.Version(), v+3)
	}
	if m.Walkable(1, 1) || m.Walkable(3, 3) || !m.Walkable(0, 0) {
		t.Fatal("carved and removed cells must not be walkable")
	}
}
