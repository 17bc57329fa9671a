package widget

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/models"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#" + constants.DefaultHexColor)).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#" + constants.DefaultHexColor))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var glyphs = map[string]string{
	"star.fill":   "★",
	"flame.fill":  "🔥",
	"drop.fill":   "💧",
	"figure.run":  "🏃",
	"book.fill":   "📖",
	"moon.fill":   "☾",
	"heart.fill":  "♥",
	"leaf.fill":   "🍃",
	"sparkles":    "✨",
	"checkmark":   "✓",
	"circle":      "○",
	"circle.fill": "●",
}

// Glyph maps an icon symbol name to a terminal character.
func Glyph(symbol string) string {
	if g, ok := glyphs[symbol]; ok {
		return g
	}
	return "•"
}

// Build selects the first limit habits by creation time and marks which
// are done on now's calendar day. A limit of 0 or less uses the default.
func Build(habits []models.Habit, now time.Time, limit int) models.Summary {
	if limit <= 0 {
		limit = constants.DefaultWidgetLimit
	}

	ordered := make([]models.Habit, len(habits))
	copy(ordered, habits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	shown := ordered
	if len(shown) > limit {
		shown = shown[:limit]
	}

	summary := models.Summary{
		Date:       now,
		Habits:     make([]models.SummaryHabit, 0, len(shown)),
		TotalCount: len(habits),
		Overflow:   len(habits) - len(shown),
	}
	for i := range shown {
		h := &shown[i]
		summary.Habits = append(summary.Habits, models.SummaryHabit{
			ID:         h.ID,
			Title:      h.Title,
			IconSymbol: h.IconSymbol,
			HexColor:   h.HexColor,
			DoneToday:  h.IsCompleted(now),
		})
	}
	return summary
}

// Render draws the summary as a small framed card.
func Render(s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   %s\n",
		Glyph("sparkles"),
		headerStyle.Render("Your Aura"),
		mutedStyle.Render(s.Date.Format("Mon 2")))

	if len(s.Habits) == 0 {
		b.WriteString(mutedStyle.Render("No active habits"))
	}

	titleWidth := 0
	for _, h := range s.Habits {
		if w := lipgloss.Width(h.Title); w > titleWidth {
			titleWidth = w
		}
	}
	titleStyle := lipgloss.NewStyle().Width(titleWidth + 2)

	for i, h := range s.Habits {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + h.HexColor))
		mark := mutedStyle.Render(Glyph("circle"))
		if h.DoneToday {
			mark = color.Render(Glyph("checkmark"))
		}
		fmt.Fprintf(&b, "%s %s%s", color.Render(Glyph(h.IconSymbol)), titleStyle.Render(h.Title), mark)
		if i < len(s.Habits)-1 {
			b.WriteString("\n")
		}
	}

	if s.Overflow > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("+%d more...", s.Overflow)))
	}

	return frameStyle.Render(b.String())
}
