// Package ui implements the interactive terminal interface.
//
// The TUI is a thin host over the service layer: a filterable profile list,
// a deterministic preview pane that pages through (seed, index) coordinates,
// and a statistics view rendered through glamour. Nothing here mutates
// profiles; the same coordinates always show the same prompts.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
	"github.com/dpshade/zero-edit/internal/renderer"
	"github.com/dpshade/zero-edit/internal/service"
	"github.com/dpshade/zero-edit/internal/validation"
)

// previewPageSize is how many consecutive prompts the preview pane shows
const previewPageSize = 8

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	hasDarkBg := lipgloss.HasDarkBackground()

	var styleOption glamour.TermRendererOption
	if hasDarkBg {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("dark")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	} else {
		switch profile {
		case termenv.TrueColor, termenv.ANSI256:
			styleOption = glamour.WithStandardStyle("light")
		default:
			styleOption = glamour.WithAutoStyle()
		}
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// loadCompleteMsg carries the result of the async profile load
type loadCompleteMsg struct {
	profiles []*models.Profile
	err      error
}

// loadProfilesCmd loads profiles synchronously (fast with the parse cache)
func loadProfilesCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		profiles, err := svc.ListProfiles()
		if err != nil {
			profiles = []*models.Profile{}
		}
		return loadCompleteMsg{profiles: profiles, err: err}
	}
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewPreview
	ViewProfileInfo
)

// Model represents the TUI application state
type Model struct {
	service      *service.Service
	viewMode     ViewMode
	errorHandler *errors.TUIErrorHandler

	// UI components
	profileList list.Model
	viewport    viewport.Model
	help        help.Model
	keys        KeyMap

	// Data
	profiles        []*models.Profile
	loading         bool
	selectedProfile *models.Profile

	// Generation coordinates for the preview pane
	seed  uint32
	index uint64

	// Rendered content
	renderedContent string
	glamourRenderer *glamour.TermRenderer

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusTimeout int

	// Error state
	err error
}

// KeyMap defines all key bindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
	Search    key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	SeedUp    key.Binding
	SeedDown  key.Binding
	Rewind    key.Binding
	Info      key.Binding
	Reload    key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.NextPage, k.PrevPage, k.SeedUp, k.SeedDown},
		{k.Rewind, k.Info, k.Search, k.Reload},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "preview"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "right"),
		key.WithHelp("n/→", "next indices"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("p", "left"),
		key.WithHelp("p/←", "previous indices"),
	),
	SeedUp: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "next seed"),
	),
	SeedDown: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "previous seed"),
	),
	Rewind: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "jump to index 0"),
	),
	Info: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "profile info"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload profiles"),
	),
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service) (*Model, error) {
	initializeColors()

	// Start empty; data loads through Init for immediate responsiveness
	profiles := []*models.Profile{}
	items := make([]list.Item, len(profiles))
	for i, p := range profiles {
		items[i] = p
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	keyMap := list.DefaultKeyMap()
	keyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	)
	l.KeyMap = keyMap

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	gr, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		service:         svc,
		viewMode:        ViewLibrary,
		errorHandler:    errors.NewTUIErrorHandler(false),
		profileList:     l,
		viewport:        vp,
		help:            help.New(),
		keys:            keys,
		profiles:        profiles,
		loading:         true,
		glamourRenderer: gr,
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return loadProfilesCmd(m.service)
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

// clearStatusCmd returns a command that clears the status message after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}

	case loadCompleteMsg:
		m.loading = false
		m.profiles = msg.profiles

		items := make([]list.Item, len(m.profiles))
		for i, p := range m.profiles {
			items[i] = p
		}
		m.profileList.SetItems(items)

		if msg.err != nil {
			m.errorHandler.HandleError(msg.err)
			icon, _ := m.errorHandler.GetErrorStyle(msg.err)
			m.statusMsg = fmt.Sprintf("%s %s", icon, m.errorHandler.FormatError(msg.err))
			m.statusTimeout = 5
			cmds = append(cmds, clearStatusCmd())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for title, status, help, and margins
		const minReservedHeight = 8
		availableHeight := msg.Height - minReservedHeight
		if availableHeight < 5 {
			availableHeight = 5
		}

		m.profileList.SetSize(msg.Width, availableHeight)

		viewportWidth := msg.Width - 20
		if viewportWidth < 40 {
			viewportWidth = 40
		}
		m.viewport.Width = viewportWidth
		m.viewport.Height = availableHeight + 1
		if gr, err := createGlamourRenderer(viewportWidth); err == nil {
			m.glamourRenderer = gr
		}

		if m.viewMode != ViewLibrary && m.selectedProfile != nil {
			m.renderCurrentView()
		}

	case tea.KeyMsg:
		// Let the list handle keys while filtering
		if m.viewMode == ViewLibrary && m.profileList.FilterState() == list.Filtering {
			break
		}

		switch m.viewMode {
		case ViewLibrary:
			return m.updateLibrary(msg)
		case ViewPreview:
			return m.updatePreview(msg)
		case ViewProfileInfo:
			return m.updateInfo(msg)
		}
	}

	switch m.viewMode {
	case ViewLibrary:
		var cmd tea.Cmd
		m.profileList, cmd = m.profileList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewPreview, ViewProfileInfo:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateLibrary handles key messages in the profile list view
func (m Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.profileList.SelectedItem().(*models.Profile); ok {
			m.selectedProfile = item
			m.viewMode = ViewPreview
			m.seed = 0
			m.index = 0
			m.renderCurrentView()
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if item, ok := m.profileList.SelectedItem().(*models.Profile); ok {
			m.selectedProfile = item
			m.viewMode = ViewProfileInfo
			m.renderCurrentView()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, loadProfilesCmd(m.service)
	}

	var cmd tea.Cmd
	m.profileList, cmd = m.profileList.Update(msg)
	return m, cmd
}

// updatePreview handles key messages in the generation preview view
func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.viewMode = ViewLibrary
		m.selectedProfile = nil
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.index += previewPageSize
		m.renderCurrentView()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.index >= previewPageSize {
			m.index -= previewPageSize
		} else {
			m.index = 0
		}
		m.renderCurrentView()
		return m, nil

	case key.Matches(msg, m.keys.SeedUp):
		m.seed++
		m.renderCurrentView()
		return m, nil

	case key.Matches(msg, m.keys.SeedDown):
		m.seed--
		m.renderCurrentView()
		return m, nil

	case key.Matches(msg, m.keys.Rewind):
		m.index = 0
		m.renderCurrentView()
		return m, nil

	case key.Matches(msg, m.keys.Info):
		m.viewMode = ViewProfileInfo
		m.renderCurrentView()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateInfo handles key messages in the profile statistics view
func (m Model) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Info):
		m.viewMode = ViewPreview
		m.renderCurrentView()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// renderCurrentView regenerates the viewport content for the active view
func (m *Model) renderCurrentView() {
	if m.selectedProfile == nil {
		return
	}

	var markdown string
	switch m.viewMode {
	case ViewPreview:
		markdown = m.buildPreviewMarkdown()
	case ViewProfileInfo:
		stats := validation.Stats(m.selectedProfile)
		markdown = renderer.NewRenderer(m.selectedProfile, stats).RenderInfoMarkdown()
	default:
		return
	}

	rendered, err := m.glamourRenderer.Render(markdown)
	if err != nil {
		rendered = markdown
	}
	m.renderedContent = rendered
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// buildPreviewMarkdown generates the current page of prompts as markdown.
// Same profile, seed, and index always produce the same page.
func (m *Model) buildPreviewMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.selectedProfile.Title())
	fmt.Fprintf(&b, "Seed %d, indices %d-%d\n\n", m.seed, m.index, m.index+previewPageSize-1)

	prompts, err := m.service.GenerateBatch(m.selectedProfile.Name, m.seed, m.index, previewPageSize, "", "")
	if err != nil {
		m.errorHandler.HandleError(err)
		fmt.Fprintf(&b, "**Generation failed:** %s\n", m.errorHandler.FormatError(err))
		return b.String()
	}

	for i, prompt := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", m.index+uint64(i), prompt)
	}
	return b.String()
}

// View renders the current state of the model
func (m Model) View() string {
	switch m.viewMode {
	case ViewPreview, ViewProfileInfo:
		return m.viewportView()
	default:
		return m.libraryView()
	}
}

// libraryView renders the profile list
func (m Model) libraryView() string {
	var sections []string

	sections = append(sections, CreateMainHeader("zero-edit profiles"))

	if m.loading {
		sections = append(sections, StyleTextDim.Render("Loading profiles..."))
	} else if len(m.profiles) == 0 {
		sections = append(sections, StyleTextMuted.Render(
			"No profiles found. Run 'zero-edit init' to create the default library."))
	} else {
		sections = append(sections, m.profileList.View())
	}

	if m.statusMsg != "" {
		sections = append(sections, CreateStatus(m.statusMsg, "warning"))
	}

	sections = append(sections, CreateGuaranteedHelp(
		"Enter preview • i info • / filter • r reload • q quit", m.width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewportView renders the preview and info views
func (m Model) viewportView() string {
	var sections []string

	top, bottom := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom())
	sections = append(sections, top)
	sections = append(sections, StyleContentContainer.Render(m.viewport.View()))
	sections = append(sections, bottom)

	if m.viewMode == ViewPreview {
		sections = append(sections, CreateMetadataLine(fmt.Sprintf(
			"seed=%d index=%d", m.seed, m.index)))
		sections = append(sections, CreateGuaranteedHelp(
			"n/p page • s/S seed • g rewind • i info • Esc back • q quit", m.width))
	} else {
		sections = append(sections, CreateGuaranteedHelp(
			"Esc back • q quit", m.width))
	}

	if m.statusMsg != "" {
		sections = append(sections, CreateStatus(m.statusMsg, "warning"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// CreateMetadataLine renders a dim metadata line under the preview
func CreateMetadataLine(text string) string {
	return StyleMetadata.Render(text)
}
