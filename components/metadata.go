package components

// Kind identifies the species of an organism.
type Kind uint8

const (
	KindNone Kind = iota // empty cell / no organism
	KindPrey
	KindPredator
)

// Kinds lists every living species in the fixed order used for reporting.
var Kinds = [...]Kind{KindPrey, KindPredator}

// String returns the identifier for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the identifiers for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"none", "prey", "predator"}
}

// Glyph returns the single-character mark used in text dumps of the field.
func (k Kind) Glyph() byte {
	switch k {
	case KindPrey:
		return '+'
	case KindPredator:
		return '*'
	default:
		return '.'
	}
}

// DeathCause records why an organism died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseOldAge
	CauseStarvation
	CauseEaten
)

// String returns the identifier for a DeathCause.
func (c DeathCause) String() string {
	switch c {
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseEaten:
		return "eaten"
	default:
		return "none"
	}
}
