package portal

// State is the lookup screen state.
type State int

const (
	Idle State = iota
	Warning
	Searching
	Found
	NotFound
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Warning:
		return "warning"
	case Searching:
		return "searching"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}
