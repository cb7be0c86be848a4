package core

// OutcomeKind tags the terminal state of one authentication challenge.
type OutcomeKind int

const (
	// OutcomeSucceeded means the exchange returned a credential.
	OutcomeSucceeded OutcomeKind = iota

	// OutcomeRejected means the verification service refused the attempt.
	OutcomeRejected

	// OutcomeFailed means the exchange failed below the application layer.
	OutcomeFailed

	// OutcomeTimedOut means the exchange was aborted at the deadline.
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Outcome is the result of one challenge. Exactly one of Token, Reason
// or Err is populated, depending on Kind.
type Outcome struct {
	Kind   OutcomeKind
	Token  string // Set on OutcomeSucceeded
	Reason string // Set on OutcomeRejected; one human-readable line
	Err    error  // Set on OutcomeFailed
}

// Succeeded builds a success outcome carrying the issued token.
func Succeeded(token string) Outcome {
	return Outcome{Kind: OutcomeSucceeded, Token: token}
}

// Rejected builds a business-rejection outcome with a normalized reason.
func Rejected(reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}

// Failed builds a transport-failure outcome.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// TimedOut builds a timeout outcome.
func TimedOut() Outcome {
	return Outcome{Kind: OutcomeTimedOut}
}

// Retryable reports whether a fresh attempt may follow this outcome.
func (o Outcome) Retryable() bool {
	return o.Kind != OutcomeSucceeded
}
