package domain

// UploadState is the position of one upload attempt in the handshake.
type UploadState int

const (
	StateIdle UploadState = iota
	StateKeyRequested
	StateUploading
	StateNotifying
	StateDone
	StateFailed
)

var stateNames = map[UploadState]string{
	StateIdle:         "idle",
	StateKeyRequested: "key_requested",
	StateUploading:    "uploading",
	StateNotifying:    "notifying",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s UploadState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s UploadState) Terminal() bool { return s == StateDone || s == StateFailed }

// CanTransition reports whether an attempt in state s may move to next.
// Failed is reachable from every non-idle, non-terminal state.
func (s UploadState) CanTransition(next UploadState) bool {
	if next == StateFailed {
		return s != StateIdle && !s.Terminal()
	}
	switch s {
	case StateIdle:
		return next == StateKeyRequested
	case StateKeyRequested:
		return next == StateUploading
	case StateUploading:
		return next == StateNotifying
	case StateNotifying:
		return next == StateDone
	}
	return false
}
