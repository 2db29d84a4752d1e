package server

// State is a position in the server lifecycle.
type State int

const (
	Created State = iota
	RouterAttached
	Listening
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case RouterAttached:
		return "router-attached"
	case Listening:
		return "listening"
	default:
		return "unknown"
	}
}
