// Romantic compatibility — orientation gating applied before spark is
// allowed to accumulate.
package relations

import (
	"github.com/oakvale/townsim/internal/agents"
)

// AttractionPossible reports whether `from` could be romantically
// interested in `to`, given from's orientation and to's sex. Directional:
// A→B and B→A are independent questions.
func AttractionPossible(from, to *agents.Agent) bool {
	if from.ID == to.ID {
		return false
	}
	switch from.Orientation {
	case agents.OrientationAsexual:
		return false
	case agents.OrientationHeterosexual:
		return from.Sex != to.Sex
	case agents.OrientationHomosexual:
		return from.Sex == to.Sex
	case agents.OrientationBisexual:
		return true
	}
	return false
}

// MutualAttractionPossible reports whether spark may accumulate on the
// pair's shared record: both directions must be possible. A pair with an
// asexual participant never accumulates meaningful spark.
func MutualAttractionPossible(a, b *agents.Agent) bool {
	return AttractionPossible(a, b) && AttractionPossible(b, a)
}
