package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// renderStatusBar renders the one-line sync summary shown on every screen.
// spin is drawn in front of the phase while a drain runs.
func renderStatusBar(state models.SyncState, spin string) string {
	parts := make([]string, 0, 6)

	if state.IsOnline() {
		parts = append(parts, onlineStyle.Render("● online"))
	} else {
		parts = append(parts, offlineStyle.Render("○ offline"))
	}

	phase := string(state.Phase)
	if phase == "" {
		phase = string(models.PhaseIdle)
	}
	phase = strings.ReplaceAll(phase, "_", " ")
	if state.IsSyncing {
		phase = spin + " " + phase
	}
	parts = append(parts, phase)

	parts = append(parts, fmt.Sprintf("pending %d", state.PendingCount))

	conflicts := fmt.Sprintf("conflicts %d", state.ConflictCount)
	if state.ConflictCount > 0 {
		conflicts = warningStyle.Render(conflicts)
	}
	parts = append(parts, conflicts)

	if state.FailureCount > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("failures %d", state.FailureCount)))
	}

	parts = append(parts, "last sync "+lastSyncLabel(state.LastSyncAt))

	return strings.Join(parts, "  ")
}

func lastSyncLabel(at *time.Time) string {
	if at == nil || at.IsZero() {
		return "never"
	}
	return at.Local().Format(time.DateTime)
}
