package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"
	"github.com/robby/earn/internal/domain"
	"github.com/robby/earn/internal/listings"
	"github.com/robby/earn/internal/promo"
	"github.com/robby/earn/internal/store"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeLines   = 7 // gigs header + grants header (2) + spacers (3) + footer
	minGigRows    = 3
)

// grantsCursorKey is the cursor slot for the grants section.
const grantsCursorKey = "_grants_"

// section identifies which list has keyboard focus.
type section int

const (
	sectionGigs section = iota
	sectionGrants
)

// SessionResolver reports who is signed in. *api.Client satisfies it.
type SessionResolver interface {
	ResolveSession(ctx context.Context) (*domain.Session, domain.SessionStatus, error)
}

// Deps bundles the collaborators of the home view.
type Deps struct {
	Loader   *listings.Loader
	Store    *store.Store
	Sessions SessionResolver
	Gate     *promo.Gate
	SiteURL  string
}

// HomeModel is the landing view: bounty tabs, the grants section and the
// one-time promotional prompt.
type HomeModel struct {
	// Dependencies
	loader   *listings.Loader
	store    *store.Store
	sessions SessionResolver
	gate     *promo.Gate
	ctx      context.Context
	siteURL  string

	now     func() time.Time
	openURL func(string) error

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model

	// View state
	activeTab string
	focus     section
	cursor    map[string]int // tab ID or grantsCursorKey -> selected index
	session   *domain.Session
	status    domain.SessionStatus
	width     int
	height    int
	showHelp  bool
	toast     string
}

// NewHomeModel creates the landing view. The active tab starts on the first
// tab the builder produces.
func NewHomeModel(ctx context.Context, deps Deps) HomeModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	m := HomeModel{
		loader:   deps.Loader,
		store:    deps.Store,
		sessions: deps.Sessions,
		gate:     deps.Gate,
		ctx:      ctx,
		siteURL:  deps.SiteURL,
		now:      time.Now,
		openURL:  browser.OpenURL,
		keymap:   DefaultKeyMap(),
		help:     NewHelpModel(DefaultKeyMap()),
		spinner:  sp,
		cursor:   make(map[string]int),
		status:   domain.SessionLoading,
	}
	m.activeTab = m.tabs()[0].ID
	return m
}

// Init starts the listings load, the session check and the promotion gate.
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.WindowSize(),
		m.loadListings(),
		m.resolveSession(),
		m.armPromo(),
	)
}

// Update handles messages
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listingsLoadedMsg:
		// Failures were logged by the loader; the sections render empty
		(&m).clampCursors()
		return m, nil

	case sessionResolvedMsg:
		m.session = msg.session
		m.status = msg.status
		return m, nil

	case promoShownMsg:
		return m, nil

	case openedMsg:
		if msg.err != nil {
			log.Printf("[tui] open %s failed: %v", msg.url, msg.err)
			m.toast = fmt.Sprintf("Open failed: %v", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m HomeModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		m.teardown()
		return m, tea.Quit
	}

	// The promo prompt captures input while open
	if m.PromoOpen() {
		switch {
		case key.Matches(msg, m.keymap.SignUp) && m.Eligible():
			m.gate.Close()
			return m, m.open(signUpURL(m.siteURL))
		case key.Matches(msg, m.keymap.CloseModal), msg.String() == "q":
			m.gate.Close()
		}
		return m, nil
	}

	// Help overlay
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	m.toast = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.NextTab):
		(&m).cycleTab(1)
	case key.Matches(msg, m.keymap.PrevTab):
		(&m).cycleTab(-1)
	case key.Matches(msg, m.keymap.Tab1):
		(&m).selectTabIndex(0)
	case key.Matches(msg, m.keymap.Tab2):
		(&m).selectTabIndex(1)
	case key.Matches(msg, m.keymap.Focus):
		if m.focus == sectionGigs {
			m.focus = sectionGrants
		} else {
			m.focus = sectionGigs
		}
	case key.Matches(msg, m.keymap.Down):
		(&m).moveCursor(1)
	case key.Matches(msg, m.keymap.Up):
		(&m).moveCursor(-1)
	case key.Matches(msg, m.keymap.Open):
		if u := m.selectedURL(); u != "" {
			return m, m.open(u)
		}
	case key.Matches(msg, m.keymap.ViewAll):
		return m, m.open(viewAllURL(m.siteURL))
	case key.Matches(msg, m.keymap.Refresh):
		return m, m.loadListings()
	}

	return m, nil
}

// SetActiveTab selects a tab. The id is not validated; an id that matches no
// tab renders an empty tab area.
func (m *HomeModel) SetActiveTab(id string) {
	m.activeTab = id
}

// ActiveTab returns the selected tab id.
func (m HomeModel) ActiveTab() string {
	return m.activeTab
}

// Eligible reports whether the prompt shows its call-to-action variant.
func (m HomeModel) Eligible() bool {
	return promo.Eligible(m.session, m.status)
}

// PromoOpen reports whether the promotional prompt is displayed.
func (m HomeModel) PromoOpen() bool {
	return m.gate != nil && m.gate.IsOpen()
}

// teardown withdraws the pending promo trigger. Safe to call repeatedly.
func (m HomeModel) teardown() {
	if m.gate != nil {
		m.gate.Cancel()
	}
}

func (m HomeModel) tabs() []listings.Tab {
	snap := m.store.Snapshot()
	return listings.BuildTabs(snap.Loading, snap.Bounties, m.now())
}

func (m *HomeModel) cycleTab(delta int) {
	tabs := m.tabs()
	idx := -1
	for i, t := range tabs {
		if t.ID == m.activeTab {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.SetActiveTab(tabs[0].ID)
		return
	}
	n := len(tabs)
	m.SetActiveTab(tabs[((idx+delta)%n+n)%n].ID)
	m.focus = sectionGigs
}

func (m *HomeModel) selectTabIndex(i int) {
	tabs := m.tabs()
	if i >= 0 && i < len(tabs) {
		m.SetActiveTab(tabs[i].ID)
		m.focus = sectionGigs
	}
}

// cursorKey returns the cursor slot of the focused section.
func (m HomeModel) cursorKey() string {
	if m.focus == sectionGrants {
		return grantsCursorKey
	}
	return m.activeTab
}

// focusedLen returns the number of rows in the focused section.
func (m HomeModel) focusedLen() int {
	if m.focus == sectionGrants {
		return len(m.store.GetGrants())
	}
	tab, ok := listings.FindTab(m.tabs(), m.activeTab)
	if !ok {
		return 0
	}
	return len(tab.Bounties)
}

func (m *HomeModel) moveCursor(delta int) {
	n := m.focusedLen()
	if n == 0 {
		return
	}
	k := m.cursorKey()
	idx := m.cursor[k] + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	m.cursor[k] = idx
}

// clampCursors keeps every cursor inside its (possibly shrunk) list.
func (m *HomeModel) clampCursors() {
	sizes := map[string]int{grantsCursorKey: len(m.store.GetGrants())}
	for _, t := range m.tabs() {
		sizes[t.ID] = len(t.Bounties)
	}
	for k, idx := range m.cursor {
		n := sizes[k]
		switch {
		case n == 0:
			m.cursor[k] = 0
		case idx >= n:
			m.cursor[k] = n - 1
		}
	}
}

// selectedURL returns the page of the selected listing, or "" if none.
func (m HomeModel) selectedURL() string {
	idx := m.cursor[m.cursorKey()]
	if m.focus == sectionGrants {
		grants := m.store.GetGrants()
		if idx < len(grants) {
			return grantURL(m.siteURL, grants[idx])
		}
		return ""
	}
	tab, ok := listings.FindTab(m.tabs(), m.activeTab)
	if !ok || idx >= len(tab.Bounties) {
		return ""
	}
	return bountyURL(m.siteURL, tab.Bounties[idx])
}

// View renders the landing view, with the promo prompt on top when open.
func (m HomeModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	var base string
	if m.showHelp {
		base = m.help.View(width)
	} else {
		available := height - chromeLines
		gigRows := available / 2
		if gigRows < minGigRows {
			gigRows = minGigRows
		}
		// Grant cards take two lines each
		grantCards := (available - gigRows) / 2
		if grantCards < 1 {
			grantCards = 1
		}

		snap := m.store.Snapshot()
		tabs := listings.BuildTabs(snap.Loading, snap.Bounties, m.now())

		sections := []string{
			m.renderGigsHeader(tabs, width),
			m.renderActiveTab(tabs, width, gigRows),
			"",
			m.renderGrants(snap, width, grantCards),
			"",
			m.renderFooter(width),
		}
		base = lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.PromoOpen() {
		return renderPopup(base, promoContent(m.Eligible()), width, height)
	}
	return base
}

// renderGigsHeader renders "Freelance Gigs | Open Completed" with a view-all hint.
func (m HomeModel) renderGigsHeader(tabs []listings.Tab, width int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Freelance Gigs"))
	b.WriteString(DimStyle.Render(" | "))
	for _, tab := range tabs {
		if tab.ID == m.activeTab {
			b.WriteString(ActiveTabStyle.Render(tab.Title))
		} else {
			b.WriteString(TabStyle.Render(tab.Title))
		}
	}
	left := b.String()
	right := DimStyle.Render("[v] View All")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderActiveTab renders the selected tab's content. An unknown tab id
// renders nothing.
func (m HomeModel) renderActiveTab(tabs []listings.Tab, width, maxRows int) string {
	tab, ok := listings.FindTab(tabs, m.activeTab)
	if !ok {
		return ""
	}
	if tab.Loading {
		return m.spinner.View() + " Loading..."
	}
	if len(tab.Bounties) == 0 {
		return EmptyTitleStyle.Render("No listings available!") + "\n" +
			DimStyle.Render("Subscribe to notifications to get notified about updates.")
	}

	selected := m.cursor[tab.ID]
	start, end := visibleRange(len(tab.Bounties), selected, maxRows)
	now := m.now()

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		active := m.focus == sectionGigs && i == selected
		lines = append(lines, m.renderBountyRow(tab.Bounties[i], active, width, now))
	}
	return strings.Join(lines, "\n")
}

func (m HomeModel) renderBountyRow(b domain.Bounty, selected bool, width int, now time.Time) string {
	right := RewardStyle.Render(formatReward(b.RewardAmount, b.Token)) + "  " + DimStyle.Render(dueLabel(b.Deadline, now))

	leftWidth := width - lipgloss.Width(right) - 3 // prefix + gap
	if leftWidth < 10 {
		leftWidth = 10
	}
	text := b.Title
	if b.Sponsor.Name != "" {
		text += " · " + b.Sponsor.Name
	}
	text = truncate.StringWithTail(text, uint(leftWidth), "…")

	var left string
	if selected {
		left = SelectedItemStyle.Render("> " + text)
	} else {
		left = NormalItemStyle.Render("  " + text)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderGrants renders the grants section: spinner, empty state or cards.
func (m HomeModel) renderGrants(snap store.Snapshot, width, maxCards int) string {
	lines := []string{
		TitleStyle.Render("Grants"),
		SubtitleStyle.Render("Equity-free funding opportunities for builders"),
	}

	switch {
	case snap.Loading:
		lines = append(lines, m.spinner.View()+" Loading...")
	case len(snap.Grants) == 0:
		lines = append(lines,
			EmptyTitleStyle.Render("No grants available!"),
			DimStyle.Render("Subscribe to notifications to get notified about new grants."),
		)
	default:
		selected := m.cursor[grantsCursorKey]
		start, end := visibleRange(len(snap.Grants), selected, maxCards)
		for i := start; i < end; i++ {
			active := m.focus == sectionGrants && i == selected
			lines = append(lines, m.renderGrantCard(snap.Grants[i], active, width))
		}
	}
	return strings.Join(lines, "\n")
}

func (m HomeModel) renderGrantCard(g domain.Grant, selected bool, width int) string {
	right := RewardStyle.Render("Up to " + formatReward(g.RewardAmount, g.Token))

	leftWidth := width - lipgloss.Width(right) - 3
	if leftWidth < 10 {
		leftWidth = 10
	}
	text := g.Title
	if g.Sponsor.Name != "" {
		text += " · " + g.Sponsor.Name
	}
	text = truncate.StringWithTail(text, uint(leftWidth), "…")

	var title string
	if selected {
		title = SelectedItemStyle.Render("> " + text)
	} else {
		title = NormalItemStyle.Render("  " + text)
	}
	padding := width - lipgloss.Width(title) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	descWidth := width - 4
	if descWidth < 10 {
		descWidth = 10
	}
	desc := DimStyle.Render("  " + truncate.StringWithTail(g.ShortDescription, uint(descWidth), "…"))

	return title + strings.Repeat(" ", padding) + right + "\n" + desc
}

// renderFooter renders key hints on the left and session/toast on the right.
func (m HomeModel) renderFooter(width int) string {
	left := m.help.ShortView()

	var right string
	switch {
	case m.toast != "":
		right = ErrorStyle.Render(m.toast)
	case m.status == domain.SessionLoading:
		right = DimStyle.Render("checking session…")
	case m.session != nil:
		right = DimStyle.Render("signed in as " + m.session.User.Name)
	default:
		right = DimStyle.Render("signed out")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// visibleRange returns the [start, end) window of n rows that keeps cursor
// visible within limit rows.
func visibleRange(n, cursor, limit int) (int, int) {
	if limit <= 0 || n <= limit {
		return 0, n
	}
	start := cursor - limit/2
	if start < 0 {
		start = 0
	}
	if start+limit > n {
		start = n - limit
	}
	return start, start + limit
}

// loadListings runs one load cycle in the background.
func (m HomeModel) loadListings() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	return func() tea.Msg {
		err := m.loader.Load(m.ctx)
		if errors.Is(err, store.ErrLoadInFlight) {
			return nil
		}
		return listingsLoadedMsg{err: err}
	}
}

// resolveSession checks who is signed in.
func (m HomeModel) resolveSession() tea.Cmd {
	if m.sessions == nil {
		return nil
	}
	return func() tea.Msg {
		sess, status, err := m.sessions.ResolveSession(m.ctx)
		if err != nil {
			log.Printf("[session] resolve failed: %v", err)
		}
		return sessionResolvedMsg{session: sess, status: status}
	}
}

// armPromo arms the gate and waits for it to fire or be cancelled.
func (m HomeModel) armPromo() tea.Cmd {
	if m.gate == nil {
		return nil
	}
	gate := m.gate
	return func() tea.Msg {
		armed, err := gate.Arm()
		if err != nil {
			log.Printf("[promo] arm failed: %v", err)
			return nil
		}
		if !armed {
			return nil
		}
		<-gate.Done()
		if gate.State() == promo.Shown {
			return promoShownMsg{}
		}
		return nil
	}
}

// open launches url in the browser.
func (m HomeModel) open(url string) tea.Cmd {
	opener := m.openURL
	return func() tea.Msg {
		return openedMsg{url: url, err: opener(url)}
	}
}
