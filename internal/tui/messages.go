package tui

import "github.com/go-video-drop/internal/client"

// progressMsg and doneMsg carry the attempt number so that events from an
// attempt abandoned with ctrl+r are ignored.
type progressMsg struct {
	attempt  int
	progress client.Progress
}

type doneMsg struct {
	attempt int
	result  *client.Result
	err     error
}
