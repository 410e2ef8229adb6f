// ABOUTME: Editor rendering
// ABOUTME: Draws each track's envelope, markers, playback highlight and time axis
package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Resonate-Protocol/wavecut/internal/session"
	"github.com/Resonate-Protocol/wavecut/internal/version"
	"github.com/Resonate-Protocol/wavecut/pkg/marker"
	"github.com/charmbracelet/lipgloss"
)

// cell styles
const (
	styleNone = iota
	styleWave
	styleHighlight
	styleMarker
	styleActive
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	currentHeaderStyle = headerStyle.
				Underline(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	cellStyles = map[int]lipgloss.Style{
		styleNone:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		styleWave:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		styleHighlight: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		styleMarker:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		styleActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}

	helpStyle = lipgloss.NewStyle().Faint(true)
)

type cell struct {
	ch    rune
	style int
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(version.String()))
	b.WriteString(valueStyle.Render(fmt.Sprintf("  min silence %.1fs", m.session.MinSilence())))
	b.WriteString(valueStyle.Render(m.renderControls()))
	b.WriteString("\n\n")

	for i, tr := range m.session.Tracks {
		b.WriteString(m.renderTrack(i, tr))
	}

	b.WriteString(valueStyle.Render(m.status.text))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab:track  m:markers  ←/→:cursor  enter:select  shift+←/→:move  space:play  x:stop  ↑/↓:volume  u:mute  s:save  +/-/0:zoom  [/]:pan  ,/.:silence  q:quit"))

	return b.String()
}

// renderControls renders volume and playback state
func (m Model) renderControls() string {
	mixer, ok := m.session.Mixer()
	if !ok {
		return ""
	}

	muteIcon := ""
	if mixer.IsMuted() {
		muteIcon = " 🔇"
	}
	playing := ""
	if mixer.IsPlaying() {
		playing = "  ▶"
	}
	return fmt.Sprintf("  volume [%s] %d%%%s%s", renderBar(mixer.Volume(), 100, 10), mixer.Volume(), muteIcon, playing)
}

func renderBar(value, max, width int) string {
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderTrack renders one block of trackLines lines
func (m Model) renderTrack(index int, tr *session.Track) string {
	var b strings.Builder
	width := m.plotWidth()
	pad := strings.Repeat(" ", leftPad)

	title := fmt.Sprintf("%s (%s)", tr.Name, tr.Method)
	if tr.Loaded() {
		title += fmt.Sprintf(" %s  %.2fs  %d Hz", tr.Path(), tr.Waveform().Duration(), tr.Waveform().SampleRate())
	}
	if m.busy[index] {
		title += "  [detecting]"
	}
	style := headerStyle
	if index == m.current {
		style = currentHeaderStyle
	}
	b.WriteString(pad + style.Render(title) + "\n")

	if !tr.Loaded() {
		for i := 0; i < trackLines-1; i++ {
			if i == waveRows/2 {
				b.WriteString(pad + valueStyle.Render("(no file)"))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	grid := m.plot(tr, width)
	for _, row := range grid {
		b.WriteString(pad + renderCells(row) + "\n")
	}
	b.WriteString(pad + renderCells(m.markerLine(tr, width)) + "\n")
	b.WriteString(pad + valueStyle.Render(axisLine(tr, width)) + "\n")

	cursor := ""
	if index == m.current {
		cursor = strings.Repeat(" ", m.cursor[index]) + "^"
	}
	b.WriteString(pad + cursor + "\n")

	return b.String()
}

// plot draws the envelope with the highlight and marker columns overlaid
func (m Model) plot(tr *session.Track, width int) [][]cell {
	grid := make([][]cell, waveRows)
	mid := waveRows / 2
	for r := range grid {
		grid[r] = make([]cell, width)
		for c := range grid[r] {
			grid[r][c] = cell{ch: ' ', style: styleNone}
			if r == mid {
				grid[r][c].ch = '─'
			}
		}
	}

	v := tr.View()
	hs, he, highlighted := tr.Highlight()

	for c, p := range tr.Peaks(width) {
		style := styleWave
		if highlighted {
			t := v.XToTime(float64(c)+0.5, width)
			if t >= hs && t < he {
				style = styleHighlight
			}
		}

		top := valueRow(p.Max)
		bottom := valueRow(p.Min)
		for r := top; r <= bottom; r++ {
			grid[r][c] = cell{ch: '█', style: style}
		}
	}

	for _, mk := range tr.Store().Markers() {
		if !v.Visible(mk.Time) {
			continue
		}
		c := markerColumn(v.TimeToX(mk.Time, width), width)
		style := styleMarker
		if mk.State == marker.Active {
			style = styleActive
		}
		for r := range grid {
			grid[r][c] = cell{ch: '│', style: style}
		}
	}

	return grid
}

// markerLine labels visible markers with their ordinal
func (m Model) markerLine(tr *session.Track, width int) []cell {
	line := make([]cell, width)
	for c := range line {
		line[c] = cell{ch: ' '}
	}

	v := tr.View()
	for _, mk := range tr.Store().Sorted() {
		if !v.Visible(mk.Time) {
			continue
		}
		style := styleMarker
		if mk.State == marker.Active {
			style = styleActive
		}
		label := strconv.Itoa(tr.Store().Ordinal(mk.ID))
		c := markerColumn(v.TimeToX(mk.Time, width), width)
		for i, ch := range label {
			if c+i < width {
				line[c+i] = cell{ch: ch, style: style}
			}
		}
	}
	return line
}

// axisLine shows the window bounds and zoom
func axisLine(tr *session.Track, width int) string {
	v := tr.View()
	start, end := v.Window()
	left := fmt.Sprintf("%.3fs", start)
	right := fmt.Sprintf("%.3fs", end)
	middle := fmt.Sprintf("x%.1f", v.Zoom())

	gap := width - len(left) - len(right) - len(middle)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap/2) + middle + strings.Repeat(" ", gap-gap/2) + right
}

// valueRow maps a normalized sample to a plot row, +1 at the top
func valueRow(v float64) int {
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round((1 - v) / 2 * float64(waveRows-1)))
}

func markerColumn(x float64, width int) int {
	return clamp(int(x), 0, width-1)
}

// renderCells styles runs of equal cells together
func renderCells(cells []cell) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].style == cells[i].style {
			run.WriteRune(cells[j].ch)
			j++
		}
		b.WriteString(cellStyles[cells[i].style].Render(run.String()))
		i = j
	}
	return b.String()
}
