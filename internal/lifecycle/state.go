package lifecycle

import "reactor/internal/coreerr"

// ServiceState is the lifecycle state of a Service.
type ServiceState int

const (
	Stopped ServiceState = iota
	Starting
	Running
	Stopping
	Unavailable
	Error
)

var stateNames = [...]string{
	Stopped:     "stopped",
	Starting:    "starting",
	Running:     "running",
	Stopping:    "stopping",
	Unavailable: "unavailable",
	Error:       "error",
}

// String renders the canonical lower-case alias for a ServiceState.
func (s ServiceState) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// ParseServiceState parses a string alias back into a ServiceState. It
// fails with coreerr.ErrInvalidArgument for any string not in the table.
func ParseServiceState(s string) (ServiceState, error) {
	for i, name := range stateNames {
		if name == s {
			return ServiceState(i), nil
		}
	}
	return 0, coreerr.ErrInvalidArgument
}

// TargetState is the subset of ServiceState an operator may request:
// Running or Stopped.
type TargetState = ServiceState
