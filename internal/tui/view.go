package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/satindergrewal/melodymagic/internal/notes"
	"github.com/satindergrewal/melodymagic/internal/quiz"
)

const (
	keyWidth   = 5
	meterWidth = 24
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a855f7"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	whiteKeyStyle = lipgloss.NewStyle().
			Width(keyWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.Color("#f3f4f6"))
	blackKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#111827"))
	staffStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	goodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	badStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// blackAfter marks keys followed by a black key (G, A, C, D).
var blackAfter = [notes.Count]bool{true, true, false, true, true, false, false}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mode := m.game.Mode()
	status := ""
	if m.muted {
		status = "  muted"
	}
	header := headerStyle.Render(fmt.Sprintf("melodymagic  %s mode%s", mode, status))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.staffView(mode))
	out.WriteString("\n\n")
	out.WriteString(m.keyboardView(mode))
	out.WriteString("\n\n")

	if mode == quiz.Play {
		st := m.game.Stats()
		out.WriteString(fmt.Sprintf("Score %d   Streak %d   Best %d", st.Score, st.Streak, st.BestStreak))
		out.WriteString("\n")
	}
	if m.feedback != "" {
		style := badStyle
		if strings.HasPrefix(m.feedback, "Correct") {
			style = goodStyle
		}
		out.WriteString(style.Render(m.feedback))
		out.WriteString("\n")
	}

	out.WriteString(meterView(m.meter))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render("a-j/1-7:play  ←/→:move  enter:play  tab:learn/play  m:mute  q:quit"))
	return out.String()
}

// Staff geometry in the note table's StaffY units: five lines from staffTop
// to staffBottom, one text row per line or space.
const (
	staffTop    = 40
	staffBottom = 120
	staffStep   = 10
)

var idleHead = lipgloss.Color("#1e293b")

// onLine reports whether y falls on a staff or ledger line position.
func onLine(y int) bool {
	return (y-staffTop)%(2*staffStep) == 0
}

func onStaff(y int) bool {
	return y >= staffTop && y <= staffBottom && onLine(y)
}

// staffRows returns the StaffY of each text row, highest first, covering the
// staff and every note.
func staffRows() []int {
	lo, hi := staffTop, staffBottom
	for _, n := range notes.All() {
		lo, hi = min(lo, n.StaffY), max(hi, n.StaffY)
	}
	var rows []int
	for y := lo; y <= hi; y += staffStep {
		rows = append(rows, y)
	}
	return rows
}

// staffView draws each note head at its StaffY. Learn mode shows every note;
// play mode shows only the target. Notes off the staff get a ledger line.
func (m Model) staffView(mode quiz.Mode) string {
	target := m.game.Target()
	all := notes.All()

	var b strings.Builder
	for _, y := range staffRows() {
		line := " "
		if onStaff(y) {
			line = "─"
		}
		b.WriteString(staffStyle.Render(strings.Repeat(line, 2)))
		for i, n := range all {
			if n.StaffY != y || (mode == quiz.Play && n.ID != target) {
				b.WriteString(staffStyle.Render(strings.Repeat(line, keyWidth)))
				continue
			}
			through := line
			if onLine(y) {
				through = "─"
			}
			b.WriteString(noteHead(n, through, m.headColor(i, mode)))
		}
		b.WriteString("\n")
	}
	// names below the staff, hidden in play mode
	b.WriteString("  ")
	for _, n := range all {
		label := ""
		if mode == quiz.Learn {
			label = n.ID
		} else if n.ID == target {
			label = "?"
		}
		b.WriteString(lipgloss.PlaceHorizontal(keyWidth, lipgloss.Center, label))
	}
	return b.String()
}

// headColor is the note color for the target in play mode and for a sounding
// note in learn mode; idle heads are dark.
func (m Model) headColor(i int, mode quiz.Mode) lipgloss.Color {
	if mode == quiz.Play || m.lit[i] != 0 {
		return lipgloss.Color(notes.At(i).Color)
	}
	return idleHead
}

func noteHead(n notes.Note, line string, color lipgloss.Color) string {
	stem := "↑"
	if n.Stem == notes.StemDown {
		stem = "↓"
	}
	head := lipgloss.NewStyle().Foreground(color).Render("●" + stem)
	pad := staffStyle.Render(strings.Repeat(line, keyWidth-3))
	return staffStyle.Render(line) + head + pad
}

func (m Model) keyboardView(mode quiz.Mode) string {
	var keys, bindings, cursor []string
	for i, n := range notes.All() {
		style := whiteKeyStyle
		if m.lit[i] != 0 {
			style = style.Background(lipgloss.Color(n.Color)).Foreground(lipgloss.Color("#ffffff"))
		}
		name := n.Name
		if mode == quiz.Play && m.lit[i] == 0 {
			name = " "
		}
		key := style.Render(name)
		gap := " "
		if blackAfter[i] {
			gap = blackKeyStyle.Render("▌")
		}
		keys = append(keys, key+gap)
		bindings = append(bindings, lipgloss.PlaceHorizontal(keyWidth+1, lipgloss.Left,
			lipgloss.PlaceHorizontal(keyWidth, lipgloss.Center, keyBindings[i])))
		mark := ""
		if i == m.cursor {
			mark = "^"
		}
		cursor = append(cursor, lipgloss.PlaceHorizontal(keyWidth+1, lipgloss.Left,
			lipgloss.PlaceHorizontal(keyWidth, lipgloss.Center, mark)))
	}

	left := lipgloss.PlaceHorizontal(3*(keyWidth+1), lipgloss.Center, notes.Left.String()+" hand")
	right := lipgloss.PlaceHorizontal(4*(keyWidth+1), lipgloss.Center, notes.Right.String()+" hand")

	return strings.Join([]string{
		"  " + strings.Join(keys, ""),
		"  " + dimStyle.Render(strings.Join(bindings, "")),
		"  " + strings.Join(cursor, ""),
		"  " + dimStyle.Render(left+right),
	}, "\n")
}

func meterView(level float64) string {
	n := int(level*meterWidth + 0.5)
	if n > meterWidth {
		n = meterWidth
	}
	if n < 0 {
		n = 0
	}
	return "Level " + goodStyle.Render(strings.Repeat("█", n)) + dimStyle.Render(strings.Repeat("░", meterWidth-n))
}
