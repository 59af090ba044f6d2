package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/neonsnake/game"
	"github.com/brensch/neonsnake/rules"
)

var (
	neonGreen = lipgloss.Color("#39ff14")
	neonPink  = lipgloss.Color("#ff2a6d")
	neonCyan  = lipgloss.Color("#05d9e8")
	dim       = lipgloss.Color("#3a3a5a")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(neonCyan)
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b6ff9e"))
	bodyStyle   = lipgloss.NewStyle().Foreground(neonGreen)
	foodStyle   = lipgloss.NewStyle().Bold(true).Foreground(neonPink)
	emptyStyle  = lipgloss.NewStyle().Foreground(dim)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(neonCyan)
	labelStyle  = lipgloss.NewStyle().Foreground(neonCyan)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(neonPink)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb000"))
)

const (
	headCell  = "██"
	bodyCell  = "▓▓"
	foodCell  = "◆ "
	emptyCell = "· "
)

func renderBoard(s rules.Snapshot) string {
	cells := make(map[game.Point]string, len(s.Snake)+1)
	cells[s.Food] = foodStyle.Render(foodCell)
	for i := len(s.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			cells[s.Snake[i]] = headStyle.Render(headCell)
		} else {
			cells[s.Snake[i]] = bodyStyle.Render(bodyCell)
		}
	}

	var b strings.Builder
	for y := 0; y < s.GridSize; y++ {
		for x := 0; x < s.GridSize; x++ {
			if c, ok := cells[game.Point{X: x, Y: y}]; ok {
				b.WriteString(c)
				continue
			}
			b.WriteString(emptyStyle.Render(emptyCell))
		}
		if y < s.GridSize-1 {
			b.WriteByte('\n')
		}
	}
	return boardStyle.Render(b.String())
}

func stat(label string, value any) string {
	return labelStyle.Render(label+" ") + valueStyle.Render(fmt.Sprint(value))
}

func renderStats(s rules.Snapshot) string {
	// Speed is shown in moves per second, the way players think about it.
	speed := 0.0
	if s.Interval > 0 {
		speed = float64(1e9) / float64(s.Interval)
	}
	return strings.Join([]string{
		stat("score", s.Score),
		stat("high", s.HighScore),
		stat("level", s.Level),
		stat("speed", fmt.Sprintf("%.1f/s", speed)),
		stat("length", s.Length()),
		stat("food", s.FoodEaten),
	}, "   ")
}

func renderBanner(s rules.Snapshot) string {
	switch s.Phase {
	case rules.PhaseIdle:
		return bannerStyle.Render("press space to start")
	case rules.PhasePaused:
		return bannerStyle.Render("PAUSED") + helpStyle.Render("  space to resume")
	case rules.PhaseGameOver:
		return bannerStyle.Render("GAME OVER") + "  " + strings.Join([]string{
			stat("score", s.Score),
			stat("length", s.Length()),
			stat("food", s.FoodEaten),
		}, "  ") + helpStyle.Render("  space/r play again  m menu")
	}
	return ""
}
