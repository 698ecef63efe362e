// Package tui is the interactive upload form.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-video-drop/internal/client"
)

// Run shows the form until the user quits.
func Run(ctx context.Context, uploader Uploader) error {
	open := func(path string) (client.File, io.Closer, error) {
		f, osFile, err := client.OpenFile(path)
		if err != nil {
			return client.File{}, nil, err
		}
		return f, osFile, nil
	}
	_, err := tea.NewProgram(NewModel(ctx, uploader, open), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
