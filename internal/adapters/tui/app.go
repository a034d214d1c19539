package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"anchorbar/internal/adapters/tui/views"
	"anchorbar/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewDrop
	ViewHelp
)

// App is the main TUI application model
type App struct {
	catalog ports.Catalog

	state   ViewState
	browser *views.BrowserModel
	drop    *views.DropModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(catalog ports.Catalog) *App {
	return &App{
		catalog: catalog,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(catalog),
		drop:    views.NewDropModel(catalog),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.drop.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToDropMsg:
		a.state = ViewDrop
		a.drop.SetTarget(msg.Annotation)
		return a, a.drop.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	// Drop view messages
	case views.DropSuccessMsg:
		a.state = ViewBrowser
		cmd := a.browser.Reload()
		a.browser.SetMessage(msg.Message, false)
		return a, cmd

	case views.DropErrMsg:
		a.drop.SetMessage(msg.Err.Error(), true)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewDrop:
		_, cmd = a.drop.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewDrop:
		return a.drop.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
