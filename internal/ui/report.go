package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/drivesweep/internal/clean"
	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	"github.com/lakshaymaurya-felt/drivesweep/internal/core"
	"github.com/lakshaymaurya-felt/drivesweep/internal/scan"
)

var (
	nameCol = lipgloss.NewStyle().Width(30)
	sizeCol = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	numCol  = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	riskCol = lipgloss.NewStyle().Width(8)
)

// InventoryTable renders scan results in catalog order. Categories with
// nothing found are listed dimmed.
func InventoryTable(cats config.Catalog, inv scan.Inventory) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("  " + IconDiamond + " Scan results"))
	s.WriteString("\n\n")
	s.WriteString(DimStyle.Render(fmt.Sprintf("    %s %s %s %s",
		nameCol.Render("CATEGORY"), riskCol.Render("RISK"),
		numCol.Render("FILES"), sizeCol.Render("SIZE"))))
	s.WriteString("\n")

	for _, cat := range cats {
		r, ok := inv[cat.ID]
		if !ok {
			continue
		}

		files := fmt.Sprintf("%d", r.FileCount)
		if cat.IsTrash() {
			files = fmt.Sprintf("%d items", r.FileCount)
		}
		line := fmt.Sprintf("%s %s %s",
			TextStyle.Inherit(nameCol).Render(truncate(cat.Name, 29)),
			RiskStyle(string(cat.Risk)).Inherit(riskCol).Render(string(cat.Risk)),
			numCol.Render(files)+" "+sizeCol.Render(core.FormatSize(r.TotalSize)),
		)

		icon := lipgloss.NewStyle().Foreground(ColorSecondary).Render(IconBullet)
		if cat.IsTrash() {
			icon = lipgloss.NewStyle().Foreground(ColorSecondary).Render(IconTrash)
		}
		if r.Error != "" {
			icon = TagWarningStyle.Render(IconWarning)
		}
		if r.FileCount == 0 && r.Error == "" {
			line = DimStyle.Render(line)
		}
		s.WriteString("  " + icon + " " + line + "\n")
		if r.Error != "" {
			s.WriteString(DimStyle.Render("      " + r.Error))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Total reclaimable: %s\n",
		TagSuccessStyle.Render(core.FormatSize(inv.TotalSize()))))
	return s.String()
}

// CleanSummary renders a clean report in the given id order.
func CleanSummary(ids []string, rep clean.Report, dryRun bool) string {
	var s strings.Builder

	title := "Cleanup complete"
	if dryRun {
		title = "Dry run (nothing deleted)"
	}
	s.WriteString(TitleStyle.Render("  " + IconDiamond + " " + title))
	s.WriteString("\n\n")

	for _, id := range ids {
		r, ok := rep[id]
		if !ok {
			continue
		}

		icon := TagSuccessStyle.Render(IconCheck)
		if r.Failed > 0 {
			icon = TagErrorStyle.Render(IconError)
		}
		s.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			icon,
			nameCol.Render(truncate(r.Name, 29)),
			numCol.Render(fmt.Sprintf("%d ok", r.Removed)),
			sizeCol.Render(core.FormatSize(r.Freed)),
		))
		if r.Failed > 0 {
			s.WriteString(DimStyle.Render(fmt.Sprintf("      %d failed (%d denied)", r.Failed, r.Denied)))
			s.WriteString("\n")
			for _, e := range r.Errors {
				s.WriteString(DimStyle.Render("      " + IconPipe + " " + e))
				s.WriteString("\n")
			}
		}
		if r.Partial {
			s.WriteString(TagWarningStyle.Render("      interrupted"))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("  Freed %s, removed %d, failed %d\n",
		TagSuccessStyle.Render(core.FormatSize(rep.TotalFreed())),
		rep.TotalRemoved(), rep.TotalFailed()))
	return s.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
