package clip

// dirtyState describes how much of the encoded plane texture is stale.
type dirtyState uint8

const (
	// dirtyNone: nothing changed since the last encode.
	dirtyNone dirtyState = iota
	// dirtyOne: exactly one plane index is pending.
	dirtyOne
	// dirtyAll: two or more planes are pending, or positional
	// assumptions were invalidated (removal, reallocation).
	dirtyAll
)

// dirtyTracker records which planes changed between encodes so the update
// scheduler can choose between a single-plane partial upload and a full
// re-encode.
//
// The tracker never clears itself; only a completed encode resets it.
type dirtyTracker struct {
	state dirtyState
	index int
}

// markIndex records a change at plane index i. Recording a second,
// different index escalates to a full re-encode; recording the same
// index again is a no-op.
func (t *dirtyTracker) markIndex(i int) {
	switch t.state {
	case dirtyNone:
		t.state = dirtyOne
		t.index = i
	case dirtyOne:
		if t.index != i {
			t.state = dirtyAll
		}
	case dirtyAll:
		// Already a full re-encode.
	}
}

// markAll forces a full re-encode regardless of prior state.
func (t *dirtyTracker) markAll() {
	t.state = dirtyAll
}

// reset clears the tracker after a completed encode.
func (t *dirtyTracker) reset() {
	t.state = dirtyNone
	t.index = 0
}

func (t *dirtyTracker) isClean() bool { return t.state == dirtyNone }
func (t *dirtyTracker) isAll() bool   { return t.state == dirtyAll }
