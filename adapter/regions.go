package adapter

import (
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/dm-vev/adamant-utils/bus"
)

// Region is a named axis-aligned box in world space.
type Region struct {
	Name     string
	Min, Max mgl64.Vec3
}

// Valid reports whether the region is named and spans a non-degenerate
// volume, with Min at or below Max on every axis.
func (r Region) Valid() bool {
	if r.Name == "" {
		return false
	}
	for i := 0; i < 3; i++ {
		if r.Min[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether pos lies within the region, boundaries included.
func (r Region) Contains(pos mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if pos[i] < r.Min[i] || pos[i] > r.Max[i] {
			return false
		}
	}
	return true
}

// Regions is a set adapter holding named world regions. Degenerate regions
// are rejected on insertion and the set empties itself when the world it
// observes closes, as regions cannot outlive their world.
type Regions struct {
	*Set[Region]
}

// NewRegions creates a disabled Regions adapter subscribed under owner.
func NewRegions(reg bus.Registry, owner string) *Regions {
	r := &Regions{}
	r.Set = New(Options[Region]{
		Bus:      reg,
		Owner:    owner,
		Listener: &regionsListener{regions: r},
		Valid:    Region.Valid,
		Name:     "region set",
	})
	return r
}

// At returns a snapshot of the regions containing pos.
func (r *Regions) At(pos mgl64.Vec3) []Region {
	var out []Region
	for reg := range r.All() {
		if reg.Contains(pos) {
			out = append(out, reg)
		}
	}
	return out
}

// regionsListener drops all regions once their world shuts down.
type regionsListener struct {
	world.NopHandler
	regions *Regions
}

func (l *regionsListener) HandleClose(*world.Tx) {
	l.regions.Clear()
}
