package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/utils"
)

const barWidth = 24

var (
	accent     = lipgloss.Color("#" + constants.DefaultHexColor)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Width(4).Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(accent)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	todayStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// LastNDays returns n daily buckets ending today, oldest first, each holding
// the number of habits completed that day.
func LastNDays(habits []models.Habit, now time.Time, n int) []models.DayCount {
	if n <= 0 {
		return nil
	}
	today := utils.StartOfDay(now)
	days := make([]models.DayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := utils.AddDays(today, -i)
		count := 0
		for j := range habits {
			if habits[j].IsCompleted(day) {
				count++
			}
		}
		days = append(days, models.DayCount{
			Day:   day,
			Label: day.Format("Mon"),
			Count: count,
		})
	}
	return days
}

// TotalCompletions counts every recorded completion across habits.
func TotalCompletions(habits []models.Habit) int {
	total := 0
	for i := range habits {
		total += habits[i].TotalCompletions()
	}
	return total
}

// BestStreak is the highest current streak among habits as of now.
func BestStreak(habits []models.Habit, now time.Time) int {
	best := 0
	for i := range habits {
		if s := habits[i].StreakAt(now); s > best {
			best = s
		}
	}
	return best
}

// LongestStreak is the longest run any habit has ever had.
func LongestStreak(habits []models.Habit, loc *time.Location) int {
	best := 0
	for i := range habits {
		if s := habits[i].BestStreak(loc); s > best {
			best = s
		}
	}
	return best
}

// Week returns the seven days of the week containing now, starting on
// firstWeekday.
func Week(now time.Time, firstWeekday time.Weekday) []time.Time {
	start := utils.StartOfDay(now)
	offset := (int(start.Weekday()) - int(firstWeekday) + 7) % 7
	start = utils.AddDays(start, -offset)

	week := make([]time.Time, 7)
	for i := range week {
		week[i] = utils.AddDays(start, i)
	}
	return week
}

// StreakLabel formats a streak count for display.
func StreakLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// RenderChart draws the daily buckets as horizontal bars scaled to the
// busiest day.
func RenderChart(days []models.DayCount) string {
	max := 0
	for _, d := range days {
		if d.Count > max {
			max = d.Count
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Performance"))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("last %d days", len(days))))
	b.WriteString("\n")

	for _, d := range days {
		width := 0
		if max > 0 {
			width = d.Count * barWidth / max
		}
		if d.Count > 0 && width == 0 {
			width = 1
		}
		bar := barStyle.Render(strings.Repeat("█", width))
		rest := mutedStyle.Render(strings.Repeat("·", barWidth-width))
		fmt.Fprintf(&b, "%s %s%s %d\n", labelStyle.Render(d.Label), bar, rest, d.Count)
	}
	return b.String()
}

// Render draws the chart followed by the summary cards.
func Render(habits []models.Habit, now time.Time) string {
	var b strings.Builder
	b.WriteString(RenderChart(LastNDays(habits, now, constants.ChartDays)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d\n", titleStyle.Render("Total  "), TotalCompletions(habits))
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Streak "), StreakLabel(BestStreak(habits, now)))
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Longest"), StreakLabel(LongestStreak(habits, now.Location())))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Tip: keeping a streak for 3 days makes you 40% more likely to stick with it."))
	b.WriteString("\n")
	return b.String()
}

// RenderWeek draws a habit-by-day grid for the given week, marking today.
func RenderWeek(habits []models.Habit, week []time.Time, now time.Time) string {
	nameWidth := 5
	for _, h := range habits {
		if w := lipgloss.Width(h.Title); w > nameWidth {
			nameWidth = w
		}
	}
	nameStyle := lipgloss.NewStyle().Width(nameWidth + 2)

	var b strings.Builder
	b.WriteString(nameStyle.Render(""))
	for _, day := range week {
		cell := fmt.Sprintf("%s %2d", day.Format("Mon"), day.Day())
		if utils.SameDay(day, now) {
			cell = todayStyle.Render(cell)
		}
		b.WriteString(cell + "  ")
	}
	b.WriteString("\n")

	for i := range habits {
		h := &habits[i]
		color := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + h.HexColor))
		b.WriteString(nameStyle.Render(h.Title))
		for _, day := range week {
			mark := mutedStyle.Render("  ○   ")
			if h.IsCompleted(day) {
				mark = color.Render("  ●   ")
			}
			b.WriteString(mark + "  ")
		}
		b.WriteString("\n")
	}

	if len(habits) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet."))
		b.WriteString("\n")
	}
	return b.String()
}
