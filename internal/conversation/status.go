package conversation

import "github.com/guilhermegouw/parley/internal/gateway"

// statusMachine tracks whether the session is still accepting prompts and
// which summary applies once it is not. Ended is terminal.
type statusMachine struct {
	status  gateway.Status
	summary string
	has     bool
	// explicit is set when the summary came from an end request rather than
	// from scanning the history.
	explicit bool
}

func (s *statusMachine) reset() {
	*s = statusMachine{status: gateway.StatusActive}
}

func (s *statusMachine) ended() bool {
	return s.status == gateway.StatusEnded
}

// endExplicitly records a successful end request.
func (s *statusMachine) endExplicitly(summary string, history []gateway.Message) {
	s.status = gateway.StatusEnded
	s.explicit = true
	if summary != "" {
		s.summary, s.has = summary, true
		return
	}
	s.summary, s.has = gateway.FindSummary(history)
}

// observe folds a status reported by the service into the machine. A
// reported "active" never reopens an ended session.
func (s *statusMachine) observe(status gateway.Status, history []gateway.Message) {
	if status != gateway.StatusEnded {
		return
	}
	s.status = gateway.StatusEnded
	if s.explicit {
		return
	}
	s.summary, s.has = gateway.FindSummary(history)
}
