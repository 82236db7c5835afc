package screens

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/renato0307/vigia/internal/k8s"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/types"
	"github.com/renato0307/vigia/internal/ui"
)

// tickMsg drives a screen's periodic snapshot pull. The sequence number
// pins the message to one tick chain: Init bumps the sequence, so ticks
// scheduled before a screen switch die instead of stacking a second chain.
type tickMsg struct {
	screenID string
	seq      uint64
	time     time.Time
}

// refreshResultMsg carries a pulled snapshot back into Update. Rows are
// only rebuilt there; the pulling goroutine never touches view state.
type refreshResultMsg struct {
	screenID string
	items    []any
	err      error
	duration time.Duration
}

// ColumnConfig defines a column in the resource list table
type ColumnConfig struct {
	Field    string           // Field name in the row struct
	Title    string           // Column display title
	Width    int              // 0 = dynamic, >0 = fixed
	Format   func(any) string // Optional custom formatter
	Priority int              // 1=critical, 2=important, 3=optional
}

// NavigationFunc handles Enter key navigation for a screen
type NavigationFunc func(screen *ConfigScreen) tea.Cmd

// ScreenConfig defines a config-driven resource screen
type ScreenConfig struct {
	ID           string
	Title        string
	ResourceType k8s.ResourceType
	Columns      []ColumnConfig
	SearchFields []string

	// RefreshInterval overrides TickInterval when set
	RefreshInterval time.Duration
	TrackSelection  bool

	// NoTick disables the periodic pull for screens whose rows never
	// change on their own (help)
	NoTick bool

	// Optional navigation handler (contextual navigation on Enter key)
	NavigationHandler NavigationFunc

	// Optional overrides for screens that are not plain resource lists
	CustomRefresh func(*ConfigScreen) tea.Cmd
	CustomUpdate  func(*ConfigScreen, tea.Msg) (tea.Model, tea.Cmd)
	CustomView    func(*ConfigScreen) string
}

// ConfigScreen is a generic screen implementation driven by ScreenConfig.
// It pulls read-only snapshots from the data provider on every tick and
// rebuilds its table rows; it never talks to the cluster itself.
type ConfigScreen struct {
	config ScreenConfig
	data   k8s.DataProvider
	table  table.Model
	theme  *ui.Theme

	items    []any
	filtered []any
	filter   string
	width    int
	height   int

	// For selection tracking across refreshes
	selectedKey string

	// For contextual navigation filtering
	filterContext *types.FilterContext

	// Responsive column hiding
	visibleColumns []ColumnConfig
	hiddenCount    int

	tickSeq     uint64
	lastApplied time.Time
	loadingUp   bool
}

// NewConfigScreen creates a config-driven screen backed by the app's data
// provider.
func NewConfigScreen(cfg ScreenConfig, appCtx *types.AppContext) *ConfigScreen {
	columns := make([]table.Column, len(cfg.Columns))
	for i, col := range cfg.Columns {
		columns[i] = table.Column{
			Title: col.Title,
			Width: col.Width,
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(appCtx.Theme.ToTableStyles())

	return &ConfigScreen{
		config:         cfg,
		data:           appCtx.Data,
		table:          t,
		theme:          appCtx.Theme,
		visibleColumns: cfg.Columns,
	}
}

func (s *ConfigScreen) ID() string {
	return s.config.ID
}

func (s *ConfigScreen) Title() string {
	return s.config.Title
}

func (s *ConfigScreen) HelpText() string {
	return "↑/↓: navigate • enter: drill down • /: filter • esc: back • ctrl+c: quit"
}

// ResourceType reports which kind this screen subscribes to. Screens that
// render derived data (help, sync status, output) return the empty type.
func (s *ConfigScreen) ResourceType() k8s.ResourceType {
	return s.config.ResourceType
}

// Init starts a fresh tick chain and pulls the first snapshot. It runs on
// every switch-in; bumping the sequence invalidates ticks left over from
// the previous visit.
func (s *ConfigScreen) Init() tea.Cmd {
	s.tickSeq++
	cmds := []tea.Cmd{s.Refresh()}
	if !s.config.NoTick {
		cmds = append(cmds, s.scheduleTick())
	}
	if notice := s.loadingNotice(); notice != nil {
		cmds = append(cmds, notice)
	}
	return tea.Batch(cmds...)
}

// loadingNotice shows a spinner message when the screen's kind has no
// synced cache yet, so a cold first visit is not a silent empty table.
func (s *ConfigScreen) loadingNotice() tea.Cmd {
	rt := s.config.ResourceType
	if rt == "" || rt == k8s.ResourceTypeContext {
		return nil
	}
	for _, info := range s.data.GetSyncInfo() {
		if info.ResourceType != rt {
			continue
		}
		if info.State == k8s.SyncStateSynced || info.State == k8s.SyncStateDegraded {
			return nil
		}
		break
	}
	s.loadingUp = true
	title := s.config.Title
	return func() tea.Msg {
		return types.LoadingMsg("Loading " + title + "...")
	}
}

func (s *ConfigScreen) scheduleTick() tea.Cmd {
	interval := s.config.RefreshInterval
	if interval <= 0 {
		interval = TickInterval
	}
	seq := s.tickSeq
	id := s.config.ID
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg{screenID: id, seq: seq, time: t}
	})
}

func (s *ConfigScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.config.CustomUpdate != nil {
		return s.config.CustomUpdate(s, msg)
	}
	return s.DefaultUpdate(msg)
}

func (s *ConfigScreen) DefaultUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.screenID != s.config.ID || msg.seq != s.tickSeq {
			logging.Debug("Dropping stale tick",
				"screen", s.config.ID, "tick_screen", msg.screenID)
			return s, nil
		}
		return s, tea.Batch(s.Refresh(), s.scheduleTick())

	case refreshResultMsg:
		return s, s.applyRefresh(msg)

	case types.FilterUpdateMsg:
		s.SetFilter(msg.Filter)
		return s, nil

	case types.ClearFilterMsg:
		s.SetFilter("")
		return s, nil

	case tea.KeyMsg:
		// Intercept Enter for contextual navigation
		if msg.Type == tea.KeyEnter {
			if cmd := s.handleEnterKey(); cmd != nil {
				return s, cmd
			}
		}

		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		if s.config.TrackSelection {
			s.updateSelectedKey()
		}
		return s, cmd

	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

// Refresh pulls a snapshot in a command goroutine and reports it back as a
// refreshResultMsg. The pull is cache-only; nothing here blocks on the
// network.
func (s *ConfigScreen) Refresh() tea.Cmd {
	if s.config.CustomRefresh != nil {
		return s.config.CustomRefresh(s)
	}

	fc := s.filterContext
	return func() tea.Msg {
		start := time.Now()
		items, err := s.pullSnapshot(fc)
		return refreshResultMsg{
			screenID: s.config.ID,
			items:    items,
			err:      err,
			duration: time.Since(start),
		}
	}
}

// applyRefresh folds a pulled snapshot into the table. Results from other
// screens and results landing inside the frame floor are dropped; the next
// tick pulls again anyway.
func (s *ConfigScreen) applyRefresh(msg refreshResultMsg) tea.Cmd {
	if msg.screenID != s.config.ID {
		return nil
	}
	if msg.err != nil {
		return func() tea.Msg {
			return types.ErrorStatusMsg(fmt.Sprintf("Failed to fetch %s: %v", s.config.Title, msg.err))
		}
	}
	if time.Since(s.lastApplied) < MinRefreshInterval {
		return nil
	}
	s.lastApplied = time.Now()

	s.items = msg.items
	s.applyFilter()
	if s.config.TrackSelection {
		s.restoreCursorPosition()
	}

	cmds := []tea.Cmd{func() tea.Msg {
		return types.RefreshCompleteMsg{Duration: msg.duration}
	}}
	if s.loadingUp && s.kindSynced() {
		s.loadingUp = false
		n := len(msg.items)
		title := s.config.Title
		cmds = append(cmds, func() tea.Msg {
			return types.InfoMsg(fmt.Sprintf("Loaded %d %s", n, title))
		})
	}
	return tea.Batch(cmds...)
}

func (s *ConfigScreen) kindSynced() bool {
	for _, info := range s.data.GetSyncInfo() {
		if info.ResourceType == s.config.ResourceType {
			return info.State == k8s.SyncStateSynced || info.State == k8s.SyncStateDegraded
		}
	}
	return false
}

// pullSnapshot reads the current rows for this screen, applying the filter
// context's relationship query when one is set.
func (s *ConfigScreen) pullSnapshot(fc *types.FilterContext) ([]any, error) {
	if fc == nil {
		return s.data.GetResources(s.config.ResourceType)
	}

	// CronJob → Jobs drill-down lands on the jobs screen
	if s.config.ResourceType == k8s.ResourceTypeJob && fc.Field == "owner" {
		jobs, err := s.data.GetJobsForCronJob(fc.Metadata["namespace"], fc.Value)
		if err != nil {
			return nil, err
		}
		return toAnySlice(jobs), nil
	}

	// Deployment → ReplicaSets drill-down lands on the replicasets screen
	if s.config.ResourceType == k8s.ResourceTypeReplicaSet && fc.Field == "owner" {
		replicaSets, err := s.data.GetReplicaSetsForDeployment(fc.Metadata["namespace"], fc.Value)
		if err != nil {
			return nil, err
		}
		return toAnySlice(replicaSets), nil
	}

	// Every other drill-down targets the pods screen
	if s.config.ResourceType != k8s.ResourceTypePod {
		return s.data.GetResources(s.config.ResourceType)
	}

	namespace := fc.Metadata["namespace"]

	var pods []k8s.Pod
	var err error
	switch fc.Field {
	case "owner":
		switch fc.Metadata["kind"] {
		case "Deployment":
			pods, err = s.data.GetPodsForDeployment(namespace, fc.Value)
		case "StatefulSet":
			pods, err = s.data.GetPodsForStatefulSet(namespace, fc.Value)
		case "DaemonSet":
			pods, err = s.data.GetPodsForDaemonSet(namespace, fc.Value)
		case "Job":
			pods, err = s.data.GetPodsForJob(namespace, fc.Value)
		case "ReplicaSet":
			pods, err = s.data.GetPodsForReplicaSet(namespace, fc.Value)
		default:
			return s.data.GetResources(s.config.ResourceType)
		}
	case "node":
		pods, err = s.data.GetPodsOnNode(fc.Value)
	case "selector":
		pods, err = s.data.GetPodsForService(namespace, fc.Value)
	case "namespace":
		pods, err = s.data.GetPodsForNamespace(fc.Value)
	case "configmap":
		pods, err = s.data.GetPodsUsingConfigMap(namespace, fc.Value)
	case "secret":
		pods, err = s.data.GetPodsUsingSecret(namespace, fc.Value)
	default:
		return s.data.GetResources(s.config.ResourceType)
	}
	if err != nil {
		return nil, err
	}
	return toAnySlice(pods), nil
}

func toAnySlice[T any](items []T) []any {
	result := make([]any, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}

// ApplyFilterContext sets the drill-down context for this screen
func (s *ConfigScreen) ApplyFilterContext(ctx *types.FilterContext) {
	s.filterContext = ctx
}

// GetFilterContext returns the current drill-down context
func (s *ConfigScreen) GetFilterContext() *types.FilterContext {
	return s.filterContext
}

// SetFilter applies fuzzy filter text to the current snapshot
func (s *ConfigScreen) SetFilter(filter string) {
	s.filter = filter
	s.applyFilter()
}

// GetFilter returns the active filter text
func (s *ConfigScreen) GetFilter() string {
	return s.filter
}

// ItemCount returns the number of rows currently shown
func (s *ConfigScreen) ItemCount() int {
	return len(s.filtered)
}

// applyFilter filters items with fuzzy matching over the configured search
// fields. A leading "!" negates the match.
func (s *ConfigScreen) applyFilter() {
	if s.filter == "" {
		s.filtered = s.items
		s.updateTable()
		return
	}

	searchStrings := make([]string, len(s.items))
	for i, item := range s.items {
		fields := make([]string, 0, len(s.config.SearchFields))
		for _, fieldName := range s.config.SearchFields {
			fields = append(fields, fmt.Sprint(getFieldValue(item, fieldName)))
		}
		searchStrings[i] = strings.ToLower(strings.Join(fields, " "))
	}

	if pattern, negated := strings.CutPrefix(s.filter, "!"); negated {
		matchSet := make(map[int]bool)
		for _, m := range fuzzy.Find(pattern, searchStrings) {
			matchSet[m.Index] = true
		}
		s.filtered = make([]any, 0, len(s.items))
		for i, item := range s.items {
			if !matchSet[i] {
				s.filtered = append(s.filtered, item)
			}
		}
	} else {
		matches := fuzzy.Find(s.filter, searchStrings)
		s.filtered = make([]any, len(matches))
		for i, m := range matches {
			s.filtered[i] = s.items[m.Index]
		}
	}

	s.updateTable()
}

// updateTable rebuilds table rows from filtered items
func (s *ConfigScreen) updateTable() {
	rows := make([]table.Row, len(s.filtered))
	for i, item := range s.filtered {
		row := make(table.Row, len(s.visibleColumns))
		for j, col := range s.visibleColumns {
			val := getFieldValue(item, col.Field)
			if col.Format != nil {
				row[j] = col.Format(val)
			} else {
				row[j] = fmt.Sprint(val)
			}
		}
		rows[i] = row
	}

	s.table.SetRows(rows)

	if len(rows) > 0 {
		cursor := s.table.Cursor()
		if cursor < 0 || cursor >= len(rows) {
			s.table.SetCursor(0)
		}
	}
}

func (s *ConfigScreen) View() string {
	if s.config.CustomView != nil {
		return s.config.CustomView(s)
	}

	if s.filterContext != nil && len(s.table.Rows()) == 0 {
		return s.renderEmptyFilteredView()
	}

	return s.table.View()
}

// renderEmptyFilteredView shows a hint when a drill-down matched nothing
func (s *ConfigScreen) renderEmptyFilteredView() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(s.theme.Muted).
		Bold(true).
		Align(lipgloss.Center)

	hintStyle := lipgloss.NewStyle().
		Foreground(s.theme.Muted).
		Align(lipgloss.Center)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		titleStyle.Render("No resources found"),
		"",
		hintStyle.Render("Press ESC to go back"),
	)

	return lipgloss.Place(
		s.width,
		s.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// SetSize updates dimensions, drops low-priority columns that no longer
// fit, and spreads the remaining width over dynamic columns.
func (s *ConfigScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetHeight(height)

	padding := len(s.config.Columns) * 2
	availableWidth := width - padding

	// Fit columns by priority, critical ones first
	sorted := make([]ColumnConfig, len(s.config.Columns))
	copy(sorted, s.config.Columns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	visible := make([]ColumnConfig, 0, len(sorted))
	usedWidth := 0
	for _, col := range sorted {
		colWidth := col.Width
		if colWidth == 0 {
			colWidth = 20 // estimate for dynamic columns
		}
		// Priority 1 always shows, even squished
		if col.Priority > 1 && usedWidth+colWidth > availableWidth {
			continue
		}
		visible = append(visible, col)
		usedWidth += colWidth
	}

	// Restore config order; priority only decides who gets cut
	s.visibleColumns = restoreColumnOrder(s.config.Columns, visible)
	s.hiddenCount = len(s.config.Columns) - len(visible)

	fixedTotal := 0
	dynamicCount := 0
	for _, col := range s.visibleColumns {
		if col.Width > 0 {
			fixedTotal += col.Width
		} else {
			dynamicCount++
		}
	}

	visiblePadding := len(s.visibleColumns) * 2
	dynamicWidth := 20
	if dynamicCount > 0 {
		dynamicWidth = (width - fixedTotal - visiblePadding) / dynamicCount
		if dynamicWidth < 20 {
			dynamicWidth = 20
		}
	}

	columns := make([]table.Column, len(s.visibleColumns))
	for i, col := range s.visibleColumns {
		w := col.Width
		if w == 0 {
			w = dynamicWidth
		}
		columns[i] = table.Column{Title: col.Title, Width: w}
	}

	// Clear rows before swapping columns; SetColumns renders with the
	// current rows and panics on a count mismatch.
	s.table.SetRows([]table.Row{})
	s.table.SetColumns(columns)
	s.table.SetWidth(width)

	s.updateTable()
}

func restoreColumnOrder(original, visible []ColumnConfig) []ColumnConfig {
	result := make([]ColumnConfig, 0, len(visible))
	for _, col := range original {
		for _, v := range visible {
			if v.Field == col.Field {
				result = append(result, v)
				break
			}
		}
	}
	return result
}

// GetSelectedResource returns the selected row as a map with lowercased
// field names, embedded structs flattened. Command handlers read names,
// namespaces and selectors out of it without knowing row types.
func (s *ConfigScreen) GetSelectedResource() map[string]any {
	cursor := s.table.Cursor()
	if cursor < 0 || cursor >= len(s.filtered) {
		return nil
	}

	item := s.filtered[cursor]
	result := make(map[string]any)

	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if field.Anonymous && fieldValue.Kind() == reflect.Struct {
			embeddedType := fieldValue.Type()
			for j := 0; j < fieldValue.NumField(); j++ {
				result[strings.ToLower(embeddedType.Field(j).Name)] = fieldValue.Field(j).Interface()
			}
		} else {
			result[strings.ToLower(field.Name)] = fieldValue.Interface()
		}
	}

	return result
}

// handleEnterKey delegates to the configured navigation handler
func (s *ConfigScreen) handleEnterKey() tea.Cmd {
	if s.config.NavigationHandler != nil {
		return s.config.NavigationHandler(s)
	}
	return nil
}

// getFieldValue extracts a field value by name, including fields promoted
// from embedded structs.
func getFieldValue(obj any, fieldName string) any {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	field := v.FieldByName(fieldName)
	if !field.IsValid() {
		return ""
	}
	return field.Interface()
}

// updateSelectedKey remembers the selected resource for cursor restoration
func (s *ConfigScreen) updateSelectedKey() {
	cursor := s.table.Cursor()
	if cursor >= 0 && cursor < len(s.filtered) {
		s.selectedKey = resourceKey(s.filtered[cursor])
	}
}

// restoreCursorPosition moves the cursor back to the previously selected
// resource after a refresh reordered the rows.
func (s *ConfigScreen) restoreCursorPosition() {
	if s.selectedKey == "" {
		return
	}
	for i, item := range s.filtered {
		if resourceKey(item) == s.selectedKey {
			s.table.SetCursor(i)
			return
		}
	}
}

func resourceKey(item any) string {
	namespace := fmt.Sprint(getFieldValue(item, "Namespace"))
	name := fmt.Sprint(getFieldValue(item, "Name"))
	return namespace + "/" + name
}
