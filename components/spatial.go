package components

import "github.com/pthm-cable/foxes/field"

// Position records where an organism sits on the field.
// Placed is false until the organism has been put on the grid.
type Position struct {
	Loc    field.Location
	Placed bool
}
