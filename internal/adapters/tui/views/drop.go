package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"anchorbar/internal/adapters/tui/styles"
	"anchorbar/internal/application/commands"
	"anchorbar/internal/ports"
)

// DropModel is the model for the drop confirmation view
type DropModel struct {
	ConfirmationModel
	catalog ports.Catalog
}

// NewDropModel creates a new drop view model
func NewDropModel(catalog ports.Catalog) *DropModel {
	return &DropModel{
		ConfirmationModel: NewConfirmationModel(),
		catalog:           catalog,
	}
}

// Init initializes the drop view
func (m *DropModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the drop view
func (m *DropModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDrop,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DropModel) doDrop() tea.Msg {
	if m.Target == nil {
		return DropErrMsg{Err: fmt.Errorf("no annotation selected")}
	}

	result, err := commands.NewDropCommand(m.catalog, m.Target.ID).Execute(context.Background())
	if err != nil {
		return DropErrMsg{Err: err}
	}
	return DropSuccessMsg{Message: result.Message}
}

// View renders the drop view
func (m *DropModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Drop Annotation"))
	b.WriteString("\n\n")
	b.WriteString(RenderTargetInfo(m.Target, "Drop"))
	b.WriteString("\n\n")
	b.WriteString(styles.WarningMsg.Render("Its labels and vertex assignments are deleted as well."))
	b.WriteString("\n\n")
	b.WriteString(RenderConfirmPrompt("Drop this annotation?"))

	if m.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	return styles.App.Render(b.String())
}
