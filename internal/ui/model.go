// ABOUTME: Bubbletea model for the waveform editor
// ABOUTME: Maps keyboard and mouse input onto session tracks
package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/wavecut/internal/session"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
	"github.com/Resonate-Protocol/wavecut/pkg/segment"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const (
	// waveRows is the height of one waveform plot
	waveRows = 9
	// trackLines is the height of a whole track block: title, plot, markers, axis, cursor
	trackLines = waveRows + 4
	// headerLines precede the first track
	headerLines = 2
	// leftPad is the column where plots start
	leftPad = 1
	// minSilenceStep is the per-key change of the silence run length
	minSilenceStep = 0.1
	// volumeStep is the per-key volume change in percent
	volumeStep = 5
)

// Model represents the editor state
type Model struct {
	session *session.Session
	ctx     context.Context

	current int
	cursor  []int
	busy    []bool

	status   *statusLine
	quitting bool

	// Dimensions
	width  int
	height int
}

// statusLine is shared by model copies so store subscribers can write to it
type statusLine struct {
	text string
}

// markersMsg carries speech detection results back to the update loop
type markersMsg struct {
	track      int
	generation int
	times      []float64
	err        error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.cursor {
			m.cursor[i] = clamp(m.cursor[i], 0, m.plotWidth()-1)
		}
	case markersMsg:
		m.applyMarkers(msg)
	}

	return m, nil
}

// plotWidth is the number of columns a waveform spans
func (m Model) plotWidth() int {
	w := m.width - 2*leftPad
	if w < 10 {
		return 10
	}
	return w
}

func (m Model) track() *session.Track {
	return m.session.Tracks[m.current]
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tr := m.track()
	width := m.plotWidth()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if err := m.session.Stop(); err != nil {
			log.Printf("Error stopping playback: %v", err)
		}
		return m, tea.Quit
	case "tab":
		m.current = (m.current + 1) % len(m.session.Tracks)
	case "left":
		m.cursor[m.current] = clamp(m.cursor[m.current]-1, 0, width-1)
	case "right":
		m.cursor[m.current] = clamp(m.cursor[m.current]+1, 0, width-1)
	case "home":
		m.cursor[m.current] = 0
	case "end":
		m.cursor[m.current] = width - 1
	case "m":
		return m.placeMarkers()
	case "enter":
		m.selectAtCursor()
	case "shift+left", "shift+right":
		m.dragActive(msg.String() == "shift+right")
	case " ", "space":
		m.play()
	case "x":
		if err := m.session.Stop(); err != nil {
			m.status.text = fmt.Sprintf("Stop failed: %v", err)
		}
	case "up":
		m.changeVolume(volumeStep)
	case "down":
		m.changeVolume(-volumeStep)
	case "u":
		if mixer, ok := m.session.Mixer(); ok {
			mixer.SetMuted(!mixer.IsMuted())
		}
	case "s":
		m.export()
	case "+", "=":
		tr.ZoomIn(m.cursorX(), width)
	case "-":
		tr.ZoomOut(m.cursorX(), width)
	case "0":
		if tr.Loaded() {
			tr.View().Reset()
		}
	case "[":
		tr.Pan(-0.25)
	case "]":
		tr.Pan(0.25)
	case ",", ".":
		delta := minSilenceStep
		if msg.String() == "," {
			delta = -delta
		}
		next := m.session.MinSilence() + delta
		if next < 0 {
			next = 0
		}
		if err := m.session.SetMinSilence(next); err == nil {
			m.status.text = fmt.Sprintf("Minimum silence: %.1fs", next)
		}
	}

	return m, nil
}

func (m Model) changeVolume(delta int) {
	mixer, ok := m.session.Mixer()
	if !ok {
		return
	}
	mixer.SetVolume(mixer.Volume() + delta)
}

// cursorX returns the centre of the cursor column
func (m Model) cursorX() float64 {
	return float64(m.cursor[m.current]) + 0.5
}

func (m *Model) placeMarkers() (tea.Model, tea.Cmd) {
	tr := m.track()
	if !tr.Loaded() {
		m.status.text = "No file loaded"
		return *m, nil
	}
	if m.busy[m.current] {
		return *m, nil
	}

	if tr.Method == session.MethodSilence {
		n, err := tr.PlaceMarkers(m.ctx)
		if err != nil {
			m.status.text = fmt.Sprintf("Segmentation failed: %v", err)
		} else {
			m.status.text = fmt.Sprintf("%s: %d markers", tr.Name, n)
		}
		return *m, nil
	}

	// speech detection can take a while; run it off the update loop
	m.busy[m.current] = true
	m.status.text = fmt.Sprintf("%s: detecting speech...", tr.Name)
	index, gen, ctx := m.current, tr.Generation(), m.ctx
	return *m, func() tea.Msg {
		times, err := tr.DetectSpeech(ctx)
		return markersMsg{track: index, generation: gen, times: times, err: err}
	}
}

func (m *Model) applyMarkers(msg markersMsg) {
	if msg.track < 0 || msg.track >= len(m.session.Tracks) {
		return
	}
	m.busy[msg.track] = false
	tr := m.session.Tracks[msg.track]

	if msg.err != nil {
		m.status.text = fmt.Sprintf("Speech detection failed: %v", msg.err)
		return
	}
	if !tr.ApplyMarkers(msg.generation, msg.times) {
		return
	}
	m.status.text = fmt.Sprintf("%s: %d markers", tr.Name, len(msg.times))
}

func (m *Model) selectAtCursor() {
	tr := m.track()
	width := m.plotWidth()

	_, ok := tr.PointerDown(m.cursorX(), width)
	tr.PointerUp()
	if !ok {
		m.status.text = "No marker at cursor"
	}
}

func (m *Model) dragActive(forward bool) {
	tr := m.track()
	if !tr.Loaded() {
		return
	}

	step := tr.View().Width() / float64(m.plotWidth())
	if !forward {
		step = -step
	}

	t, err := tr.DragActive(step)
	if err != nil {
		m.status.text = describe(err)
		return
	}
	m.cursor[m.current] = clamp(int(tr.View().TimeToX(t, m.plotWidth())), 0, m.plotWidth()-1)
}

func (m *Model) play() {
	tr := m.track()
	clip, err := tr.Play(m.ctx)
	if err != nil {
		m.status.text = describe(err)
		return
	}
	m.status.text = fmt.Sprintf("Playing %.3fs-%.3fs", clip.Start, clip.End)
}

func (m *Model) export() {
	tr := m.track()
	if !tr.Loaded() {
		m.status.text = "No file loaded"
		return
	}

	active, ok := tr.Store().Active()
	if !ok {
		m.status.text = describe(segment.ErrNoActiveMarker)
		return
	}

	path := ExportPath(tr.Path(), tr.Store().Ordinal(active.ID))
	if _, err := tr.Export(path); err != nil {
		m.status.text = describe(err)
		return
	}
	m.status.text = fmt.Sprintf("Saved %s", path)
}

// markerStatus reports marker selection and movement from store events
func markerStatus(tr *session.Track, status *statusLine) func(marker.Event) {
	return func(e marker.Event) {
		switch e.Kind {
		case marker.Activated:
			if e.Marker.ID == uuid.Nil {
				return
			}
			status.text = fmt.Sprintf("%s: marker %d active (%.3fs)", tr.Name, tr.Store().Ordinal(e.Marker.ID), e.Marker.Time)
		case marker.Moved:
			status.text = fmt.Sprintf("%s: marker %d at %.3fs", tr.Name, tr.Store().Ordinal(e.Marker.ID), e.Marker.Time)
		}
	}
}

// ExportPath names the file a segment is exported to: next to the source,
// suffixed with the marker ordinal
func ExportPath(source string, ordinal int) string {
	if source == "" {
		return fmt.Sprintf("segment_%03d.wav", ordinal)
	}
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return fmt.Sprintf("%s_%03d.wav", base, ordinal)
}

// handleMouse maps clicks, drags and the wheel onto the track under the pointer
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	index, row, ok := m.locate(msg.Y)
	width := m.plotWidth()
	x := float64(msg.X-leftPad) + 0.5

	switch {
	case msg.Action == tea.MouseActionRelease:
		for _, tr := range m.session.Tracks {
			tr.PointerUp()
		}
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		m.track().PointerMove(x, width)
		return m, nil
	}

	if !ok || row < 1 || row > waveRows+1 {
		return m, nil
	}
	m.current = index
	tr := m.track()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		tr.ZoomIn(x, width)
	case tea.MouseButtonWheelDown:
		tr.ZoomOut(x, width)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		m.cursor[index] = clamp(msg.X-leftPad, 0, width-1)
		tr.PointerDown(x, width)
	}

	return m, nil
}

// locate returns the track and the row within its block for screen line y
func (m Model) locate(y int) (track, row int, ok bool) {
	y -= headerLines
	if y < 0 {
		return 0, 0, false
	}
	track = y / trackLines
	if track >= len(m.session.Tracks) {
		return 0, 0, false
	}
	return track, y % trackLines, true
}

// describe turns an error into a status line
func describe(err error) string {
	var collab *segment.CollaboratorError
	switch {
	case errors.Is(err, segment.ErrNoActiveMarker):
		return "Select a marker first"
	case errors.Is(err, session.ErrNotLoaded):
		return "No file loaded"
	case errors.As(err, &collab):
		return fmt.Sprintf("%s failed: %v", collab.Op, collab.Err)
	default:
		return err.Error()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
