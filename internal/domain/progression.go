package domain

// Progression is the strategy-specific state a betting method uses to pick its
// next stake: a position index, unit counters, or a Labouchere cancellation
// list depending on the method. It is owned exclusively by the session; a
// method never retains it between calls — each Decide receives the current
// state and returns the next.
type Progression []int

// Clone returns an independent copy so that updates stay immutable.
func (p Progression) Clone() Progression {
	if p == nil {
		return nil
	}
	out := make(Progression, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two progression states are element-wise identical.
func (p Progression) Equal(other Progression) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
