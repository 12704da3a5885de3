package model

// StatusKind is the progress state of the most recent ask request.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Status texts attached to each kind.
const (
	LoadingStatusText = "Getting answer..."
	SuccessStatusText = "Answer received"
	ErrorStatusText   = "There was a problem getting the answer. " +
		"Please try again in a moment."
)

// String returns the lowercase name of the status kind.
func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Status is the request indicator plus its user-facing message.
type Status struct {
	Kind    StatusKind
	Message string
}

// IdleStatus returns the resting status with an empty message.
func IdleStatus() Status {
	return Status{Kind: StatusIdle}
}

// LoadingStatus returns the status shown while an answer is pending.
func LoadingStatus() Status {
	return Status{Kind: StatusLoading, Message: LoadingStatusText}
}

// SuccessStatus returns the status shown after an answer arrives.
func SuccessStatus() Status {
	return Status{Kind: StatusSuccess, Message: SuccessStatusText}
}

// ErrorStatus returns the status shown after the ask request fails.
func ErrorStatus() Status {
	return Status{Kind: StatusError, Message: ErrorStatusText}
}

// Settled reports whether the status is a terminal request outcome.
func (s Status) Settled() bool {
	return s.Kind == StatusSuccess || s.Kind == StatusError
}
