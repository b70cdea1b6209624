package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/analysis"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("86")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

// ConsoleUI provides console UI functionality
type ConsoleUI struct {
	writer io.Writer
	colors bool
}

// NewConsoleUI creates a console UI writing to stdout
func NewConsoleUI(enableColors bool) *ConsoleUI {
	return NewConsoleUIWriter(os.Stdout, enableColors)
}

// NewConsoleUIWriter creates a console UI writing to w
func NewConsoleUIWriter(w io.Writer, enableColors bool) *ConsoleUI {
	return &ConsoleUI{
		writer: w,
		colors: enableColors,
	}
}

// DisplayReport prints the result of an analysis run
func (u *ConsoleUI) DisplayReport(report *models.Report) {
	u.printBanner("FANSITE LOG ANALYSIS")

	if stats := report.Stats; stats != nil {
		u.printSection("Overall Statistics")
		u.printKeyValue("Total Requests", fmt.Sprintf("%d", stats.TotalRequests))
		u.printKeyValue("Skipped Lines", fmt.Sprintf("%d", report.SkippedLines))
		u.printKeyValue("Unique Hosts", fmt.Sprintf("%d", stats.UniqueHosts))
		u.printKeyValue("Total Bytes", fmt.Sprintf("%.2f MB", float64(stats.TotalBytes)/1024/1024))
		u.printKeyValue("Avg Bytes/Request", fmt.Sprintf("%.0f", stats.AvgBytesPerReq))
		u.printKeyValue("Median Bytes", fmt.Sprintf("%.0f", stats.MedianBytes))
		u.printKeyValue("P95 Bytes", fmt.Sprintf("%.0f", stats.P95Bytes))
		u.printKeyValue("Failed Logins", fmt.Sprintf("%d", stats.FailedLogins))
		if stats.TimeRange != nil {
			u.printKeyValue("First Request", stats.TimeRange.Start.Format("2006-01-02 15:04:05 -0700"))
			u.printKeyValue("Last Request", stats.TimeRange.End.Format("2006-01-02 15:04:05 -0700"))
		}
		u.printStatusClasses(stats)
	}

	if len(report.TopHosts) > 0 {
		u.printSection("Most Active Hosts")
		u.printHostsTable(report.TopHosts, "Requests")
	}

	if len(report.TopResources) > 0 {
		u.printSection("Bandwidth Heavy Resources")
		u.printResourcesTable(report.TopResources)
	}

	if len(report.BusiestHours) > 0 {
		u.printSection("Busiest 60 Minute Windows")
		u.printWindowsTable(report.BusiestHours)
	}

	u.printSection("Blocked Requests")
	u.printKeyValue("Blocked", fmt.Sprintf("%d", len(report.Blocked)))
	if len(report.Blocked) > 0 {
		counts := analysis.BlockedCounts(report.Blocked)
		u.printHostsTable(counts[:min(10, len(counts))], "Blocked")
	}
}

// Print helper methods
func (u *ConsoleUI) printBanner(title string) {
	if u.colors {
		fmt.Fprintf(u.writer, "\n%s\n", bannerStyle.Render(title))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	}
}

func (u *ConsoleUI) printSection(title string) {
	if u.colors {
		color.New(color.FgYellow, color.Bold).Fprintf(u.writer, "\n%s\n", title)
		color.New(color.FgYellow).Fprintf(u.writer, "%s\n", strings.Repeat("─", len(title)))
	} else {
		fmt.Fprintf(u.writer, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
}

func (u *ConsoleUI) printKeyValue(key, value string) {
	if u.colors {
		color.New(color.FgWhite, color.Bold).Fprintf(u.writer, "%-25s", key+":")
		color.New(color.FgGreen).Fprintf(u.writer, "%s\n", value)
	} else {
		fmt.Fprintf(u.writer, "%-25s %s\n", key+":", value)
	}
}

func (u *ConsoleUI) printStatusClasses(stats *models.TrafficStats) {
	classes := make([]string, 0, len(stats.StatusClasses))
	for class := range stats.StatusClasses {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		count := stats.StatusClasses[class]
		pct := float64(count) / float64(stats.TotalRequests) * 100
		u.printKeyValue(class, u.colorize(fmt.Sprintf("%d (%.1f%%)", count, pct), u.getStatusColor(class)))
	}
}

func (u *ConsoleUI) printHostsTable(hosts []models.HostCount, countLabel string) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"#", "Host", countLabel})

	for i, h := range hosts {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			truncate(h.Host, 50),
			fmt.Sprintf("%d", h.Count),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printResourcesTable(resources []models.ResourceBytes) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"#", "Path", "Bytes"})

	for i, r := range resources {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			truncate(r.Path, 50),
			fmt.Sprintf("%d", r.Bytes),
		})
	}

	table.Render()
}

func (u *ConsoleUI) printWindowsTable(windows []models.WindowCount) {
	table := tablewriter.NewWriter(u.writer)
	table.SetHeader([]string{"#", "Window Start", "Requests"})

	for i, w := range windows {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			w.Key,
			fmt.Sprintf("%d", w.Count),
		})
	}

	table.Render()
}

func (u *ConsoleUI) colorize(text string, colorAttr color.Attribute) string {
	if u.colors {
		return color.New(colorAttr).Sprint(text)
	}
	return text
}

func (u *ConsoleUI) getStatusColor(class string) color.Attribute {
	switch class {
	case "server_error":
		return color.FgRed
	case "client_error":
		return color.FgYellow
	case "redirect":
		return color.FgBlue
	default:
		return color.FgGreen
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
