// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/models"
)

type screen int

const (
	screenList screen = iota
	screenConflicts
	screenFailures
	screenEditor
	screenConfirmDelete
	screenBuildInfo
)

const statusTTL = 4 * time.Second

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

type appModel struct {
	ctx       context.Context
	services  *service.ClientServices
	buildInfo models.AppBuildInfo

	stateCh     <-chan models.SyncState
	unsubscribe func()
	state       models.SyncState

	screen  screen
	typeIdx int
	records []models.EntityRecord
	cursor  int
	loading bool

	conflicts   []models.ConflictRecord
	conflictIdx int
	failures    []models.SyncFailure
	failureIdx  int

	editor editorModel

	forcing bool
	status  string
	errMsg  string

	spinner spinner.Model
	help    help.Model
}

func newAppModel(ctx context.Context, services *service.ClientServices, buildInfo models.AppBuildInfo) appModel {
	ch, unsubscribe := services.Status.Subscribe()

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return appModel{
		ctx:         ctx,
		services:    services,
		buildInfo:   buildInfo,
		stateCh:     ch,
		unsubscribe: unsubscribe,
		loading:     true,
		spinner:     s,
		help:        help.New(),
	}
}

func (m appModel) entityType() models.EntityType {
	return models.EntityTypes[m.typeIdx]
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.cmdLoadRecords(), m.spinner.Tick)
}

// waitForState blocks on the subscription and hands the next state to
// Update, which re-arms it.
func (m appModel) waitForState() tea.Cmd {
	ch := m.stateCh
	return func() tea.Msg {
		state, ok := <-ch
		return stateMsg{state: state, closed: !ok}
	}
}

func (m appModel) cmdLoadRecords() tea.Cmd {
	ctx, services, entityType := m.ctx, m.services, m.entityType()
	return func() tea.Msg {
		records, err := services.EntityService.List(ctx, entityType)
		return recordsLoadedMsg{entityType: entityType, records: records, err: err}
	}
}

func (m appModel) cmdForceSync() tea.Cmd {
	ctx, services := m.ctx, m.services
	return func() tea.Msg {
		report, err := services.SyncOrchestrator.ForceSyncNow(ctx)
		return syncDoneMsg{report: report, err: err}
	}
}

func (m appModel) cmdSave(e editorModel) tea.Cmd {
	ctx, services := m.ctx, m.services
	return func() tea.Msg {
		if e.creating() {
			record, err := services.EntityService.Create(ctx, e.entityType, e.fields())
			return savedMsg{status: "Created " + record.Ref().String(), err: err}
		}
		_, err := services.EntityService.Update(ctx, e.entityType, e.target, e.fields())
		return savedMsg{status: "Updated " + e.target.String(), err: err}
	}
}

func (m appModel) cmdDelete(record models.EntityRecord) tea.Cmd {
	ctx, services := m.ctx, m.services
	return func() tea.Msg {
		err := services.EntityService.Delete(ctx, record.EntityType, record.ID)
		return savedMsg{status: "Deleted " + record.Ref().String(), err: err}
	}
}

func (m appModel) cmdResolve(ref models.EntityRef, choice models.ResolutionChoice) tea.Cmd {
	ctx, services := m.ctx, m.services
	return func() tea.Msg {
		return resolvedMsg{count: 1, err: services.ConflictService.Resolve(ctx, ref, choice)}
	}
}

func (m appModel) cmdResolveAll(choice models.ResolutionChoice) tea.Cmd {
	ctx, services, count := m.ctx, m.services, len(m.conflicts)
	return func() tea.Msg {
		return resolvedMsg{count: count, err: services.ConflictService.ResolveAll(ctx, choice)}
	}
}

func (m appModel) cmdExport() tea.Cmd {
	ctx, services := m.ctx, m.services
	return func() tea.Msg {
		dump, err := services.EntityService.Export(ctx)
		if err != nil {
			return exportedMsg{err: err}
		}
		data, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return exportedMsg{err: err}
		}
		if err = writeClipboard(string(data)); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{records: len(dump.Records), pending: len(dump.Pending)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m appModel) withStatus(status string) (appModel, tea.Cmd) {
	m.status = status
	m.errMsg = ""
	return m, clearStatusAfter(statusTTL)
}

func (m appModel) withError(err error) appModel {
	log := logger.FromContext(m.ctx)
	log.Err(err).Str("func", "appModel.Update").Msg("ui action failed")

	m.status = ""
	m.errMsg = errorText(err)
	return m
}

func errorText(err error) string {
	switch {
	case errors.Is(err, service.ErrOffline):
		return "Offline: changes stay queued until the server is reachable"
	case errors.Is(err, service.ErrSyncInProgress):
		return "A sync is already running"
	}
	return err.Error()
}

// refreshHeld re-reads the in-memory conflict and failure lists.
func (m appModel) refreshHeld() appModel {
	m.conflicts = m.services.ConflictService.ListConflicts()
	m.failures = m.services.SyncOrchestrator.Failures()
	m.conflictIdx = clamp(m.conflictIdx, len(m.conflicts))
	m.failureIdx = clamp(m.failureIdx, len(m.failures))
	if m.screen == screenConflicts && len(m.conflicts) == 0 {
		m.screen = screenList
	}
	return m
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		if msg.closed {
			return m, nil
		}
		prev := m.state
		m.state = msg.state
		m = m.refreshHeld()

		cmds := []tea.Cmd{m.waitForState()}
		// a drain that just finished may have renamed or refreshed records
		if prev.IsSyncing && !msg.state.IsSyncing {
			cmds = append(cmds, m.cmdLoadRecords())
		}
		return m, tea.Batch(cmds...)

	case recordsLoadedMsg:
		if msg.entityType != m.entityType() {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.records = msg.records
		m.cursor = clamp(m.cursor, len(m.records))
		return m, nil

	case syncDoneMsg:
		m.forcing = false
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m = m.refreshHeld()
		next, cmd := m.withStatus(fmt.Sprintf("Synced: %d applied, %d conflicts, %d failed",
			msg.report.Applied, msg.report.Conflicts, msg.report.Failed))
		return next, tea.Batch(cmd, next.cmdLoadRecords())

	case savedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.screen = screenList
		next, cmd := m.withStatus(msg.status)
		return next, tea.Batch(cmd, next.cmdLoadRecords())

	case resolvedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m = m.refreshHeld()
		next, cmd := m.withStatus(fmt.Sprintf("Resolved %d conflict(s)", msg.count))
		return next, tea.Batch(cmd, next.cmdLoadRecords())

	case exportedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		return m.withStatus(fmt.Sprintf("Copied export: %d records, %d pending", msg.records, msg.pending))

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.screen == screenEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.update(msg)
			return m, cmd
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenConflicts:
		return m.updateConflicts(keyMsg)
	case screenFailures:
		return m.updateFailures(keyMsg)
	case screenEditor:
		return m.updateEditor(keyMsg)
	case screenConfirmDelete:
		return m.updateConfirm(keyMsg)
	case screenBuildInfo:
		if key.Matches(keyMsg, keys.esc, keys.version) {
			m.screen = screenList
		}
		return m, nil
	}
	return m.updateList(keyMsg)
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		m.cursor = clamp(m.cursor-1, len(m.records))
	case key.Matches(msg, keys.down):
		m.cursor = clamp(m.cursor+1, len(m.records))
	case key.Matches(msg, keys.nextType):
		m.typeIdx = (m.typeIdx + 1) % len(models.EntityTypes)
		m.cursor, m.loading, m.records = 0, true, nil
		return m, m.cmdLoadRecords()
	case key.Matches(msg, keys.prevType):
		m.typeIdx = (m.typeIdx + len(models.EntityTypes) - 1) % len(models.EntityTypes)
		m.cursor, m.loading, m.records = 0, true, nil
		return m, m.cmdLoadRecords()
	case key.Matches(msg, keys.newItem):
		m.editor = newEditor(m.entityType(), nil)
		m.screen = screenEditor
		return m, textinput.Blink
	case key.Matches(msg, keys.edit):
		if len(m.records) == 0 {
			return m, nil
		}
		record := m.records[m.cursor]
		m.editor = newEditor(m.entityType(), &record)
		m.screen = screenEditor
	case key.Matches(msg, keys.delete):
		if len(m.records) > 0 {
			m.screen = screenConfirmDelete
		}
	case key.Matches(msg, keys.sync):
		if m.forcing {
			return m, nil
		}
		m.forcing = true
		m.errMsg = ""
		return m, m.cmdForceSync()
	case key.Matches(msg, keys.cancel):
		m.services.SyncOrchestrator.Cancel()
		return m.withStatus("Sync cancelled")
	case key.Matches(msg, keys.conflicts):
		m = m.refreshHeld()
		if len(m.conflicts) == 0 {
			return m.withStatus("No conflicts")
		}
		m.screen = screenConflicts
	case key.Matches(msg, keys.failures):
		m = m.refreshHeld()
		m.screen = screenFailures
	case key.Matches(msg, keys.export):
		return m, m.cmdExport()
	case key.Matches(msg, keys.version):
		m.screen = screenBuildInfo
	}
	return m, nil
}

func (m appModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.conflicts) == 0 {
		m.screen = screenList
		return m, nil
	}
	current := m.conflicts[m.conflictIdx]

	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.quit):
		m.screen = screenList
	case key.Matches(msg, keys.up):
		m.conflictIdx = clamp(m.conflictIdx-1, len(m.conflicts))
	case key.Matches(msg, keys.down):
		m.conflictIdx = clamp(m.conflictIdx+1, len(m.conflicts))
	case key.Matches(msg, keys.keepLocal):
		return m, m.cmdResolve(current.Ref(), models.KeepLocal)
	case key.Matches(msg, keys.keepRemote):
		return m, m.cmdResolve(current.Ref(), models.KeepRemote)
	case key.Matches(msg, keys.allLocal):
		return m, m.cmdResolveAll(models.KeepLocal)
	case key.Matches(msg, keys.allRemote):
		return m, m.cmdResolveAll(models.KeepRemote)
	}
	return m, nil
}

func (m appModel) updateFailures(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.quit):
		m.screen = screenList
	case key.Matches(msg, keys.up):
		m.failureIdx = clamp(m.failureIdx-1, len(m.failures))
	case key.Matches(msg, keys.down):
		m.failureIdx = clamp(m.failureIdx+1, len(m.failures))
	case key.Matches(msg, keys.dismiss):
		if len(m.failures) == 0 {
			return m, nil
		}
		m.services.SyncOrchestrator.Dismiss(m.failures[m.failureIdx].OpID)
		m = m.refreshHeld()
	}
	return m, nil
}

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.enter):
		return m, m.cmdSave(m.editor)
	case msg.Type == tea.KeyTab:
		m.editor = m.editor.next()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.screen = screenList
		if len(m.records) == 0 {
			return m, nil
		}
		return m, m.cmdDelete(m.records[m.cursor])
	case key.Matches(msg, keys.no):
		m.screen = screenList
	}
	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.screen {
	case screenConflicts:
		body = m.viewConflicts()
	case screenFailures:
		body = m.viewFailures()
	case screenEditor:
		body = renderPage(m.editor.title(), m.editor.view(), m.help, editorHelp())
	case screenConfirmDelete:
		body = m.viewList() + "\n\n" + overlayBoxStyle.Render(
			fmt.Sprintf("Delete %q?\n\ny yes    n no", recordLabel(m.records[m.cursor])))
	case screenBuildInfo:
		body = renderPage("ABOUT", renderBuildInfo(m.buildInfo), m.help, []key.Binding{keys.esc})
	default:
		body = m.viewList()
	}

	var b strings.Builder
	b.WriteString(renderStatusBar(m.state, m.spinner.View()))
	b.WriteString("\n\n")
	b.WriteString(body)
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(m.status))
	}
	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	return appStyle.Render(b.String())
}

func (m appModel) viewList() string {
	var tabs []string
	for i, t := range models.EntityTypes {
		label := t.Label()
		if i == m.typeIdx {
			label = selectedStyle.Render("[" + label + "]")
		}
		tabs = append(tabs, label)
	}

	held := make(map[models.EntityRef]bool, len(m.conflicts))
	for _, c := range m.conflicts {
		held[c.Ref()] = true
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading...")
	case len(m.records) == 0:
		b.WriteString("Nothing here yet")
	default:
		for i, r := range m.records {
			line := fmt.Sprintf("%-40s %10s  v%d", fitText(recordLabel(r), 40), r.ID, r.Version)
			if r.IsLocalOnly {
				line += "  " + helpStyle.Render("local")
			}
			if held[r.Ref()] {
				line += "  " + warningStyle.Render("conflict")
			}
			if i == m.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return renderPage("NEUROPLAN", b.String(), m.help, listHelp())
}

func (m appModel) viewConflicts() string {
	if len(m.conflicts) == 0 {
		return renderPage("CONFLICTS", "", m.help, conflictHelp())
	}
	title := fmt.Sprintf("CONFLICT %d/%d", m.conflictIdx+1, len(m.conflicts))
	return renderPage(title, renderConflict(m.conflicts[m.conflictIdx]), m.help, conflictHelp())
}

func (m appModel) viewFailures() string {
	var b strings.Builder
	for i, f := range m.failures {
		line := fmt.Sprintf("%s  %s", f.At.Local().Format("15:04:05"), f.Message())
		if f.Reason != "" {
			line += helpStyle.Render(" (" + fitText(f.Reason, 60) + ")")
		}
		if i == m.failureIdx {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return renderPage("FAILED CHANGES", b.String(), m.help, failureHelp())
}

func renderBuildInfo(info models.AppBuildInfo) string {
	var b strings.Builder
	b.WriteString("Application: neuroplan-sync\n")
	b.WriteString("Version: " + valueOrNA(info.BuildVersion()) + "\n")
	b.WriteString("Date: " + valueOrNA(info.BuildDate()) + "\n")
	b.WriteString("Commit: " + valueOrNA(info.BuildCommit()))
	return b.String()
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
