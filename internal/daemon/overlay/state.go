package overlay

// State is the overlay lifecycle state.
type State int

const (
	Closed State = iota
	Creating
	Positioned
	Visible
	Resizing
	Dismissed
)

var stateNames = [...]string{
	Closed:     "closed",
	Creating:   "creating",
	Positioned: "positioned",
	Visible:    "visible",
	Resizing:   "resizing",
	Dismissed:  "dismissed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
