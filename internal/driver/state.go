package driver

// State is the lifecycle stage of a Validator.
type State uint8

const (
	// StateIdle is the state before Run.
	StateIdle State = iota
	// StateSelecting means the selector is producing the next path.
	StateSelecting
	// StateValidating means a file is being read and parsed.
	StateValidating
	// StateFinalizing means the aggregate is being computed.
	StateFinalizing
	// StateTerminated is final; the validator cannot run again.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelecting:
		return "selecting"
	case StateValidating:
		return "validating"
	case StateFinalizing:
		return "finalizing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
