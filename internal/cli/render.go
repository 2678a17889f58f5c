package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/textwrapped/internal/analysis"
)

func printReportJSON(r *analysis.Report) error {
	return writeJSON(os.Stdout, r)
}

func printReportHuman(r *analysis.Report) {
	title := fmt.Sprintf("Your %d in Texts", r.Window.Year)
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))

	o := r.Overall
	fmt.Printf("Messages:      %s (%s sent / %s received)\n", formatCount(o.Total), formatCount(o.Sent), formatCount(o.Received))
	fmt.Printf("Contacts:      %s\n", formatCount(o.DistinctContacts))
	fmt.Printf("Words sent:    %s\n", formatCount(r.Words))
	if r.PeakWeekday != "" {
		fmt.Printf("Peak:          %s, %ss\n", formatHour(r.PeakHour), r.PeakWeekday)
	} else {
		fmt.Printf("Peak:          %s\n", formatHour(r.PeakHour))
	}
	fmt.Printf("Reply time:    ~%s\n", plural(r.ResponseMinutes, "minute"))
	fmt.Printf("You start:     %d%% of conversations\n", r.StarterPercent)
	fmt.Printf("Streak:        %s (longest %s)\n", plural(r.Calendar.CurrentStreak, "day"), plural(r.Calendar.LongestStreak, "day"))
	fmt.Printf("Active days:   %s\n", formatCount(r.Calendar.ActiveDays))
	if r.BusiestDay != nil {
		fmt.Printf("Busiest day:   %s (%s)\n", r.BusiestDay.Date, plural(r.BusiestDay.Count, "message"))
	}

	fmt.Println()
	fmt.Printf("Personality:   %s\n", r.Personality.Label)
	fmt.Printf("               %q\n", r.Personality.Tagline)

	printRollups("Top Contacts", r.TopContacts, func(c analysis.ConversationRollup) string {
		return formatCount(c.Total)
	})
	printRollups("After Midnight", r.LateNight, func(c analysis.ConversationRollup) string {
		return formatCount(c.LateNight)
	})

	printTrends("Ghosted", r.Ghosted)
	printTrends("Heating Up", r.HeatingUp)
	printAsymmetry("Biggest Fans", r.BiggestFans, func(e analysis.AsymmetryEntry) string {
		return fmt.Sprintf("%s in / %s out", formatCount(e.Received), formatCount(e.Sent))
	})
	printAsymmetry("You Simp For", r.Simps, func(e analysis.AsymmetryEntry) string {
		return fmt.Sprintf("%s out / %s in", formatCount(e.Sent), formatCount(e.Received))
	})

	if r.Groups.ActiveGroups > 0 {
		fmt.Println()
		fmt.Printf("Group Chats:   %s active, %s messages (%s yours)\n",
			formatCount(r.Groups.ActiveGroups), formatCount(r.Groups.TotalMessages), formatCount(r.Groups.SentByUser))
		for i, g := range r.GroupLeaderboard {
			fmt.Printf("  %d. %-24s %s\n", i+1, g.Name, formatCount(g.Total))
		}
	}

	if len(r.Emoji) > 0 {
		fmt.Println()
		fmt.Println("Emoji:")
		for _, e := range r.Emoji {
			fmt.Printf("  %s  %s\n", e.Emoji, formatCount(e.Count))
		}
	}

	if len(r.Stores) > 0 {
		fmt.Println()
		fmt.Println("Stores:")
		for _, s := range r.Stores {
			if s.Error != "" {
				fmt.Printf("  %-10s skipped  %s\n", s.Source, s.Error)
				continue
			}
			fmt.Printf("  %-10s %s  %s\n", s.Source, plural(s.Messages, "message"), s.Path)
		}
	}
}

func printRollups(heading string, rows []analysis.ConversationRollup, value func(analysis.ConversationRollup) string) {
	if len(rows) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%s:\n", heading)
	for i, c := range rows {
		fmt.Printf("  %2d. %-24s %s\n", i+1, c.Name, value(c))
	}
}

func printTrends(heading string, rows []analysis.TrendEntry) {
	if len(rows) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%s:\n", heading)
	for _, t := range rows {
		fmt.Printf("  %-24s %s -> %s\n", t.Name, formatCount(t.FirstHalf), formatCount(t.SecondHalf))
	}
}

func printAsymmetry(heading string, rows []analysis.AsymmetryEntry, value func(analysis.AsymmetryEntry) string) {
	if len(rows) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%s:\n", heading)
	for _, e := range rows {
		fmt.Printf("  %-24s %s\n", e.Name, value(e))
	}
}
