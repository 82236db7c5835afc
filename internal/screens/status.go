package screens

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

const (
	// SyncStatusScreenID is the screen identifier for the sync status screen
	SyncStatusScreenID = "status"

	syncStatusTick = 1 * time.Second
)

// syncStatusRowsMsg carries freshly built status rows back into Update
type syncStatusRowsMsg struct {
	rows     []table.Row
	duration time.Duration
}

// SyncStatusScreen shows per-kind cache health: state, row count, applied
// and dropped event counters, relists and the last watch error. It reads
// the same report operators would ask for when a list looks stale.
type SyncStatusScreen struct {
	data    k8s.DataProvider
	theme   *ui.Theme
	table   table.Model
	width   int
	height  int
	tickSeq uint64
}

// NewSyncStatusScreen creates the sync status screen
func NewSyncStatusScreen(appCtx *types.AppContext) *SyncStatusScreen {
	columns := []table.Column{
		{Title: "Resource", Width: 16},
		{Title: "State", Width: 12},
		{Title: "Count", Width: 7},
		{Title: "Revision", Width: 9},
		{Title: "Applied", Width: 8},
		{Title: "Dropped", Width: 8},
		{Title: "Relists", Width: 8},
		{Title: "Last Sync", Width: 10},
		{Title: "Last Error", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(appCtx.Theme.ToTableStyles())

	return &SyncStatusScreen{
		data:  appCtx.Data,
		theme: appCtx.Theme,
		table: t,
	}
}

func (s *SyncStatusScreen) ID() string {
	return SyncStatusScreenID
}

func (s *SyncStatusScreen) Title() string {
	return "Sync Status"
}

func (s *SyncStatusScreen) HelpText() string {
	return "↑/↓: navigate • esc: back • ctrl+c: quit"
}

// ResourceType returns the empty type: this screen reads counters, it
// holds no subscription of its own.
func (s *SyncStatusScreen) ResourceType() k8s.ResourceType {
	return ""
}

func (s *SyncStatusScreen) Init() tea.Cmd {
	s.tickSeq++
	return tea.Batch(s.refresh(), s.scheduleTick())
}

func (s *SyncStatusScreen) scheduleTick() tea.Cmd {
	seq := s.tickSeq
	return tea.Tick(syncStatusTick, func(t time.Time) tea.Msg {
		return tickMsg{screenID: SyncStatusScreenID, seq: seq, time: t}
	})
}

func (s *SyncStatusScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tickMsg:
		if msg.screenID != SyncStatusScreenID || msg.seq != s.tickSeq {
			return s, nil
		}
		return s, tea.Batch(s.refresh(), s.scheduleTick())

	case syncStatusRowsMsg:
		s.table.SetRows(msg.rows)
		return s, func() tea.Msg {
			return types.RefreshCompleteMsg{Duration: msg.duration}
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *SyncStatusScreen) View() string {
	return s.table.View()
}

func (s *SyncStatusScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetHeight(height)
	s.table.SetWidth(width)
}

func (s *SyncStatusScreen) refresh() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		infos := s.data.GetSyncInfo()

		var totalCount int
		var totalApplied, totalDropped, totalRelists uint64
		syncedCount := 0

		rows := make([]table.Row, 0, len(infos)+1)
		for _, info := range infos {
			if info.State == k8s.SyncStateSynced {
				syncedCount++
			}

			dropped := info.DroppedStale + info.DroppedTombstone + info.DroppedMalformed

			lastSync := "never"
			if !info.LastSyncedAt.IsZero() {
				lastSync = info.LastSyncedAt.Format("15:04:05")
			}

			rows = append(rows, table.Row{
				string(info.ResourceType),
				string(info.State),
				fmt.Sprintf("%d", info.Count),
				fmt.Sprintf("%d", info.Revision),
				fmt.Sprintf("%d", info.Applied),
				fmt.Sprintf("%d", dropped),
				fmt.Sprintf("%d", info.Relists),
				lastSync,
				info.LastError,
			})

			totalCount += info.Count
			totalApplied += info.Applied
			totalDropped += dropped
			totalRelists += info.Relists
		}

		rows = append(rows, table.Row{
			"TOTAL",
			fmt.Sprintf("%d/%d synced", syncedCount, len(infos)),
			fmt.Sprintf("%d", totalCount),
			"",
			fmt.Sprintf("%d", totalApplied),
			fmt.Sprintf("%d", totalDropped),
			fmt.Sprintf("%d", totalRelists),
			"",
			"",
		})

		return syncStatusRowsMsg{
			rows:     rows,
			duration: time.Since(start),
		}
	}
}
