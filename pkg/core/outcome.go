package core

// OutcomeKind is the action the resolver takes for one handler result.
type OutcomeKind int

const (
	// OutcomeNoop leaves the response alone.
	OutcomeNoop OutcomeKind = iota
	// OutcomeAdvance runs the next handler of the chain.
	OutcomeAdvance
	// OutcomeSend sends Payload through the resolve primitive.
	OutcomeSend
	// OutcomeSendEmpty acknowledges with an empty success.
	OutcomeSendEmpty
	// OutcomeError sends Payload (an error) through the error primitive.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoop:
		return "noop"
	case OutcomeAdvance:
		return "advance"
	case OutcomeSend:
		return "send"
	case OutcomeSendEmpty:
		return "send_empty"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Outcome is computed once per result and applied once.
type Outcome struct {
	Kind    OutcomeKind
	Payload any
}

// Class is the classification of a synchronous handler result.
type Class int

const (
	ClassUnresolvable Class = iota
	ClassPending
	ClassFailure
	ClassResolvable
)

func (c Class) String() string {
	switch c {
	case ClassUnresolvable:
		return "unresolvable"
	case ClassPending:
		return "pending"
	case ClassFailure:
		return "failure"
	case ClassResolvable:
		return "resolvable"
	}
	return "unknown"
}
