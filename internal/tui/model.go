package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-video-drop/internal/client"
	"github.com/go-video-drop/internal/domain"
)

// Uploader runs one upload attempt.
type Uploader interface {
	Upload(ctx context.Context, in client.Input, onProgress client.ProgressFunc) (*client.Result, error)
}

// FileOpener resolves a path into an uploadable file.
type FileOpener func(path string) (client.File, io.Closer, error)

type phase int

const (
	phaseForm phase = iota
	phaseUploading
	phaseResult
)

const (
	fieldPath = iota
	fieldName
	fieldEmail
)

// Model is the upload form. It owns only presentation state; the handshake
// itself runs in client.Client.
type Model struct {
	ctx      context.Context
	uploader Uploader
	open     FileOpener

	inputs []textinput.Model
	focus  int
	bar    progress.Model

	phase   phase
	attempt int
	events  chan tea.Msg

	fileName string
	fileSize int64
	state    domain.UploadState
	percent  float64
	errMsg   string
	result   *client.Result
}

func NewModel(ctx context.Context, uploader Uploader, open FileOpener) *Model {
	path := textinput.New()
	path.Placeholder = "/path/to/video.mp4"
	path.Width = 50
	path.Focus()

	name := textinput.New()
	name.Placeholder = "optional"
	name.CharLimit = 100
	name.Width = 50

	email := textinput.New()
	email.Placeholder = "optional"
	email.CharLimit = 254
	email.Width = 50

	return &Model{
		ctx:      ctx,
		uploader: uploader,
		open:     open,
		inputs:   []textinput.Model{path, name, email},
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		m.state = msg.progress.State
		m.percent = msg.progress.Percent() / 100
		return m, waitForEvent(m.events)
	case doneMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		m.phase = phaseResult
		if msg.err != nil {
			m.state = domain.StateFailed
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.state = domain.StateDone
		m.percent = 1
		m.result = msg.result
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.reset()
			return m, textinput.Blink
		}
		if m.phase == phaseForm {
			return m.updateForm(msg)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case "enter":
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// submit validates the form and starts an attempt. Validation failures stay
// on the form with a message.
func (m *Model) submit() tea.Cmd {
	path := strings.TrimSpace(m.inputs[fieldPath].Value())
	senderName := strings.TrimSpace(m.inputs[fieldName].Value())
	senderEmail := strings.TrimSpace(m.inputs[fieldEmail].Value())

	if path == "" {
		m.errMsg = "Please select a video file."
		return nil
	}
	if err := client.ValidateSenderEmail(senderEmail); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	file, closer, err := m.open(path)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if err := client.ValidateVideoFile(file.Name, file.ContentType); err != nil {
		_ = closer.Close()
		m.errMsg = err.Error()
		return nil
	}

	m.attempt++
	m.phase = phaseUploading
	m.errMsg = ""
	m.result = nil
	m.percent = 0
	m.state = domain.StateIdle
	m.fileName = file.Name
	m.fileSize = file.Size
	m.events = make(chan tea.Msg, 16)

	in := client.Input{File: file, SenderName: senderName, SenderEmail: senderEmail}
	go m.run(m.attempt, m.events, in, closer)
	return waitForEvent(m.events)
}

func (m *Model) run(attempt int, events chan<- tea.Msg, in client.Input, closer io.Closer) {
	defer closer.Close()
	res, err := m.uploader.Upload(m.ctx, in, func(p client.Progress) {
		// one slot stays free for doneMsg; progress is dropped when the UI lags
		if len(events) < cap(events)-1 {
			events <- progressMsg{attempt: attempt, progress: p}
		}
	})
	events <- doneMsg{attempt: attempt, result: res, err: err}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

// reset returns to an empty form. An in-flight PUT keeps running; its
// events are discarded.
func (m *Model) reset() {
	m.attempt++
	m.phase = phaseForm
	m.events = nil
	m.errMsg = ""
	m.result = nil
	m.percent = 0
	m.state = domain.StateIdle
	m.fileName = ""
	m.fileSize = 0
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.setFocus(fieldPath)
}

func describeError(err error) string {
	var te *domain.TransferError
	if errors.As(err, &te) {
		return fmt.Sprintf("%s. Please try again.", te.Error())
	}
	if errors.Is(err, context.Canceled) {
		return "Upload cancelled."
	}
	return fmt.Sprintf("Upload failed: %v", err)
}

func (m *Model) View() string {
	switch m.phase {
	case phaseUploading:
		return renderPage("UPLOADING", m.progressView(), "ctrl+r: reset │ esc: quit")
	case phaseResult:
		return renderPage("RESULT", m.resultView(), "ctrl+r: upload another │ esc: quit")
	}
	return renderPage("VIDEO UPLOAD", m.formView(), "tab: next field │ enter: upload │ ctrl+r: reset │ esc: quit")
}

func (m *Model) formView() string {
	var b strings.Builder
	labels := []string{"Video file", "Your name", "Your email"}
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) progressView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", m.fileName, client.FormatFileSize(m.fileSize))
	b.WriteString(m.bar.ViewAs(m.percent))
	fmt.Fprintf(&b, "\n\n%s", stateLabel(m.state))
	return b.String()
}

func (m *Model) resultView() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	var b strings.Builder
	b.WriteString(successStyle.Render("Upload complete: " + m.fileName))
	if m.result != nil {
		if m.result.ViewableURL != "" {
			b.WriteString("\n\nView your video:\n")
			b.WriteString(m.result.ViewableURL)
		}
		if m.result.Warning != "" {
			b.WriteString("\n\n")
			b.WriteString(warnStyle.Render(m.result.Warning))
		}
	}
	return resultStyle.Render(b.String())
}

func stateLabel(s domain.UploadState) string {
	switch s {
	case domain.StateKeyRequested:
		return "Requesting upload URL..."
	case domain.StateUploading:
		return "Uploading to storage..."
	case domain.StateNotifying:
		return "Sending notification..."
	case domain.StateDone:
		return "Done."
	default:
		return "Preparing..."
	}
}
