// Package components defines ECS components for the simulation.
package components

// Life tracks an organism's species, age and alive flag.
// Once Alive is false the organism never acts again and is purged at the
// end of the step.
type Life struct {
	Kind  Kind
	Age   int
	Alive bool
	Cause DeathCause // set when Alive flips to false
}

// Hunger tracks a predator's food level. Prey carry no Hunger component.
type Hunger struct {
	Food int
}
