// Package field provides the bounded grid organisms live on.
package field

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foxes/config"
)

// ErrOutOfBounds is returned when a location lies outside the field.
var ErrOutOfBounds = errors.New("location out of bounds")

// Location is a (row, column) cell coordinate.
type Location struct {
	Row, Col int
}

// String formats the location as "(row,col)".
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// neighborOffsets lists the 8-neighbourhood in row-major order.
var neighborOffsets = [8]Location{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Field is a depth x width grid of cells, each empty or holding one entity.
// A cell can also be reserved for an organism that will be placed later;
// reserved cells are not free but still read as empty.
type Field struct {
	depth    int
	width    int
	cells    []ecs.Entity // row-major, zero entity = empty
	reserved []bool
}

// New creates an empty field. Non-positive dimensions fall back to
// config.DefaultDepth x config.DefaultWidth.
func New(depth, width int) *Field {
	if depth <= 0 || width <= 0 {
		slog.Warn("invalid field dimensions, using defaults",
			"depth", depth,
			"width", width,
			"default_depth", config.DefaultDepth,
			"default_width", config.DefaultWidth,
		)
		depth, width = config.DefaultDepth, config.DefaultWidth
	}
	return &Field{
		depth:    depth,
		width:    width,
		cells:    make([]ecs.Entity, depth*width),
		reserved: make([]bool, depth*width),
	}
}

// Depth returns the number of rows.
func (f *Field) Depth() int { return f.depth }

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Contains reports whether loc lies inside the field.
func (f *Field) Contains(loc Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

func (f *Field) index(loc Location) int {
	return loc.Row*f.width + loc.Col
}

// Clear empties every cell and drops all reservations.
// The entities themselves are untouched.
func (f *Field) Clear() {
	clear(f.cells)
	clear(f.reserved)
}

// Place puts e at loc, overwriting any previous occupant reference and
// consuming a reservation on the cell.
func (f *Field) Place(e ecs.Entity, loc Location) error {
	if !f.Contains(loc) {
		return fmt.Errorf("place at %v in %dx%d field: %w", loc, f.depth, f.width, ErrOutOfBounds)
	}
	i := f.index(loc)
	f.cells[i] = e
	f.reserved[i] = false
	return nil
}

// ObjectAt returns the occupant of loc. ok is false for empty or
// out-of-bounds cells.
func (f *Field) ObjectAt(loc Location) (e ecs.Entity, ok bool) {
	if !f.Contains(loc) {
		return ecs.Entity{}, false
	}
	e = f.cells[f.index(loc)]
	return e, !e.IsZero()
}

// Vacate empties loc. Out-of-bounds locations are ignored.
func (f *Field) Vacate(loc Location) {
	if f.Contains(loc) {
		f.cells[f.index(loc)] = ecs.Entity{}
	}
}

// Reserve marks an empty cell as taken by an organism not yet placed.
func (f *Field) Reserve(loc Location) {
	if f.Contains(loc) {
		f.reserved[f.index(loc)] = true
	}
}

// IsReserved reports whether loc is held for a pending placement.
func (f *Field) IsReserved(loc Location) bool {
	return f.Contains(loc) && f.reserved[f.index(loc)]
}

// IsFree reports whether loc is inside the field, empty and unreserved.
func (f *Field) IsFree(loc Location) bool {
	if !f.Contains(loc) {
		return false
	}
	i := f.index(loc)
	return f.cells[i].IsZero() && !f.reserved[i]
}

// AdjacentLocations returns the in-bounds 8-neighbourhood of loc in
// row-major order. Edges are hard boundaries, there is no wrapping.
func (f *Field) AdjacentLocations(loc Location) []Location {
	return f.AdjacentLocationsInto(make([]Location, 0, len(neighborOffsets)), loc)
}

// AdjacentLocationsInto appends the neighbourhood of loc to dst.
// Reuse dst across calls to avoid allocations.
func (f *Field) AdjacentLocationsInto(dst []Location, loc Location) []Location {
	for _, off := range neighborOffsets {
		n := Location{Row: loc.Row + off.Row, Col: loc.Col + off.Col}
		if f.Contains(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// FreeAdjacentLocations returns the free neighbours of loc in row-major order.
func (f *Field) FreeAdjacentLocations(loc Location) []Location {
	var free []Location
	for _, n := range f.AdjacentLocations(loc) {
		if f.IsFree(n) {
			free = append(free, n)
		}
	}
	return free
}

// FreeAdjacentLocation returns the first free neighbour of loc in
// row-major order.
func (f *Field) FreeAdjacentLocation(loc Location) (Location, bool) {
	for _, off := range neighborOffsets {
		n := Location{Row: loc.Row + off.Row, Col: loc.Col + off.Col}
		if f.IsFree(n) {
			return n, true
		}
	}
	return Location{}, false
}

// Occupied returns the number of occupied cells.
func (f *Field) Occupied() int {
	n := 0
	for _, e := range f.cells {
		if !e.IsZero() {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied cell in row-major order.
func (f *Field) Each(fn func(loc Location, e ecs.Entity)) {
	for i, e := range f.cells {
		if e.IsZero() {
			continue
		}
		fn(Location{Row: i / f.width, Col: i % f.width}, e)
	}
}
