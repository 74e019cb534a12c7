// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// renderConflict shows both sides of a held conflict next to each other.
// Fields whose values differ are highlighted on both sides.
func renderConflict(c models.ConflictRecord) string {
	differs := make(map[string]bool, len(c.DifferingFields))
	for _, name := range c.DifferingFields {
		differs[name] = true
	}

	names := make(map[string]struct{}, len(c.Local.Fields)+len(c.Remote.Fields))
	for name := range c.Local.Fields {
		names[name] = struct{}{}
	}
	for name := range c.Remote.Fields {
		names[name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	local := renderSide("Local", c.Local, sorted, differs)
	remote := renderSide("Remote", c.Remote, sorted, differs)

	header := fmt.Sprintf("%s %s (%s %s)",
		c.EntityType.Label(), c.TargetID, c.SourceOperation.Kind, c.DetectedAt.Local().Format("15:04:05"))

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, local, " ", remote)
}

func renderSide(title string, s models.Snapshot, names []string, differs map[string]bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s v%d", title, s.Version)))
	if s.Deleted {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("(deleted)"))
		return sideStyle.Render(b.String())
	}

	for _, name := range names {
		v, ok := s.Fields[name]
		value := "-"
		if ok {
			value = fmt.Sprint(v)
		}
		line := fmt.Sprintf("%s: %s", name, fitText(value, 24))
		if differs[name] {
			line = diffStyle.Render("* " + line)
		} else {
			line = "  " + line
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	return sideStyle.Render(b.String())
}
