// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package report renders the human-readable summary printed after a sync pass.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/zotero-kb-sync/models"
)

const divider = "────────────────────────────────────────"

// maxListed bounds how many skipped or failed items are listed by key.
const maxListed = 20

// Render returns the summary box for one pass. err is the fatal pass error,
// if any.
func Render(info models.AppBuildInfo, summary models.SyncSummary, err error) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("zotero-kb-sync " + info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("pass " + valueOrNA(summary.PassID)))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")

	counts := summary.Counts()
	rows := [][2]string{
		{"uploaded", fmt.Sprint(counts.Uploaded)},
		{"updated", fmt.Sprint(counts.Updated)},
		{"deleted", fmt.Sprint(counts.Deleted)},
		{"skipped", fmt.Sprint(counts.Skipped)},
		{"failed", fmt.Sprint(counts.Failed)},
	}
	if summary.DryRun {
		rows = [][2]string{{"planned", fmt.Sprint(counts.Planned)}}
	}
	writeTable(&b, rows)

	if summary.DryRun {
		writeResults(&b, "planned", summary.Results, models.StatusPlanned, faintStyle)
	}
	writeResults(&b, "skipped", summary.Results, models.StatusSkipped, warnStyle)
	writeResults(&b, "failed", summary.Results, models.StatusFailed, failStyle)

	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(status(summary, err))

	return boxStyle.Render(b.String())
}

func writeTable(b *strings.Builder, rows [][2]string) {
	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > labelWidth {
			labelWidth = w
		}
	}
	for _, r := range rows {
		fmt.Fprintf(b, "%-*s │ %s\n", labelWidth, r[0], r[1])
	}
}

func writeResults(b *strings.Builder, title string, results []models.ItemResult, st models.ItemStatus, style lipgloss.Style) {
	var lines []string
	for _, r := range results {
		if r.Status != st {
			continue
		}
		line := fmt.Sprintf("%s %s", r.Action, r.Key)
		switch {
		case r.Err != nil:
			line += ": " + r.Err.Error()
		case r.Reason != "":
			line += ": " + r.Reason
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(style.Render(title))
	b.WriteString("\n")
	for i, line := range lines {
		if i == maxListed {
			fmt.Fprintf(b, "  … and %d more\n", len(lines)-maxListed)
			break
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func status(summary models.SyncSummary, err error) string {
	switch {
	case err != nil:
		return failStyle.Render("FAILED: " + err.Error())
	case summary.DryRun:
		return faintStyle.Render("DRY RUN: nothing was changed")
	case summary.HasFailures():
		return warnStyle.Render("DONE WITH FAILURES: failed items are retried next pass")
	default:
		return successStyle.Render("OK")
	}
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
