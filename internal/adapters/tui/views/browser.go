package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"anchorbar/internal/adapters/tui/styles"
	"anchorbar/internal/application/commands"
	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Copy   key.Binding
	Drop   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Drop: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "drop"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// catalogNode is one row of the browser tree: an annotation, or one of its
// labels once the annotation has been expanded
type catalogNode struct {
	annotation domain.Annotation
	label      *domain.Label
	parent     *catalogNode
	children   []*catalogNode
	loaded     bool
	expanded   bool
}

func (n *catalogNode) isLabel() bool {
	return n.label != nil
}

// clipboardText is what y copies: the source file of an annotation, or the
// "<key> <name>" of a label
func (n *catalogNode) clipboardText() string {
	if n.isLabel() {
		return fmt.Sprintf("%d %s", n.label.Key, n.label.Name)
	}
	return filepath.Join(n.annotation.Path, n.annotation.Filename)
}

// BrowserModel is the model for the catalog browser view
type BrowserModel struct {
	ViewState
	catalog ports.Catalog
	copy    func(string) error
	roots   []*catalogNode
	flat    []*catalogNode
	window  *ScrollWindow
	loaded  bool
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(catalog ports.Catalog) *BrowserModel {
	return &BrowserModel{
		catalog: catalog,
		copy:    clipboard.WriteAll,
		window:  NewScrollWindow(20),
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadAnnotations
}

func (m *BrowserModel) loadAnnotations() tea.Msg {
	annotations, err := commands.NewListAnnotationsCommand(m.catalog).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return annotationsLoadedMsg{annotations}
}

type annotationsLoadedMsg struct {
	annotations []domain.Annotation
}

type labelsLoadedMsg struct {
	node   *catalogNode
	labels []domain.Label
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case annotationsLoadedMsg:
		m.roots = make([]*catalogNode, 0, len(msg.annotations))
		for _, a := range msg.annotations {
			m.roots = append(m.roots, &catalogNode{annotation: a})
		}
		m.loaded = true
		m.refreshFlat()
		return m, nil

	case labelsLoadedMsg:
		msg.node.children = msg.node.children[:0]
		for i := range msg.labels {
			msg.node.children = append(msg.node.children, &catalogNode{
				annotation: msg.node.annotation,
				label:      &msg.labels[i],
				parent:     msg.node,
			})
		}
		msg.node.loaded = true
		m.refreshFlat()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.window.Up()
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.window.Down()
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil {
				if node.isLabel() {
					m.selectNode(node.parent)
				} else if node.expanded {
					node.expanded = false
					m.refreshFlat()
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil && !node.isLabel() {
				if !node.expanded {
					node.expanded = true
					if !node.loaded {
						return m, m.loadLabels(node)
					}
					m.refreshFlat()
				} else if key.Matches(msg, BrowserKeys.Enter) {
					node.expanded = false
					m.refreshFlat()
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.selectedNode(); node != nil {
				return m, m.copyNode(node)
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Drop):
			if node := m.selectedNode(); node != nil && !node.isLabel() {
				annotation := node.annotation
				return m, func() tea.Msg {
					return SwitchToDropMsg{Annotation: annotation}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.Reload()

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) loadLabels(node *catalogNode) tea.Cmd {
	return func() tea.Msg {
		labels, err := commands.NewListLabelsCommand(m.catalog, node.annotation.ID).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return labelsLoadedMsg{node: node, labels: labels}
	}
}

func (m *BrowserModel) copyNode(node *catalogNode) tea.Cmd {
	text := node.clipboardText()
	return func() tea.Msg {
		if err := m.copy(text); err != nil {
			return errMsg{fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return successMsg{fmt.Sprintf("Copied %s", text)}
	}
}

func (m *BrowserModel) selectedNode() *catalogNode {
	if cursor := m.window.Cursor(); cursor < len(m.flat) {
		return m.flat[cursor]
	}
	return nil
}

func (m *BrowserModel) selectNode(target *catalogNode) {
	for i, n := range m.flat {
		if n == target {
			m.window.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) refreshFlat() {
	m.flat = m.flat[:0]
	for _, root := range m.roots {
		m.flat = append(m.flat, root)
		if root.expanded {
			m.flat = append(m.flat, root.children...)
		}
	}
	m.window.SetTotal(len(m.flat))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if !m.loaded {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("anchorbar"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d annotations", len(m.roots))))
	b.WriteString("\n\n")

	if len(m.flat) == 0 {
		b.WriteString(styles.MutedText.Render("The catalog is empty. Import annotations with 'anchorbar import'."))
		b.WriteString("\n")
	}

	start, end := m.window.Visible()
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.flat[i], i == m.window.Cursor()))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(BrowserKeys.Right, BrowserKeys.Copy, BrowserKeys.Drop, BrowserKeys.Help, BrowserKeys.Quit))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *catalogNode, selected bool) string {
	if node.isLabel() {
		l := node.label
		text := fmt.Sprintf("%4d %s", l.Key, l.DisplayName())
		if l.Abbrev != "" {
			text += " (" + l.Name + ")"
		}

		style := styles.NodeLabel
		if l.Key == domain.UnlabeledKey {
			style = styles.NodeUnlabeled
		}
		if selected {
			style = styles.NodeSelected
		}
		return "    " + styles.LabelSwatch(l.Color) + " " + style.Render(text)
	}

	a := node.annotation
	prefix := styles.TreeCollapsed
	if node.expanded {
		prefix = styles.TreeExpanded
	}

	hemi := lipgloss.NewStyle().Foreground(styles.HemisphereColor(a.Hemisphere)).Render(a.Hemisphere.String())
	text := fmt.Sprintf("%d %s", a.ID, a.ShortName)
	if selected {
		text = styles.NodeSelected.Render(text)
	} else {
		text = styles.NodeAnnotation.Render(text)
	}

	return styles.TreeBranch.Render(prefix) + hemi + " " + text + " " + styles.MutedText.Render(a.Filename)
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// Title, subtitle, message and help line take about eight rows
	m.window.SetSize(height - 8)
}

// Reload reloads the catalog
func (m *BrowserModel) Reload() tea.Cmd {
	m.roots = nil
	m.flat = nil
	m.loaded = false
	m.window.SetTotal(0)
	return m.loadAnnotations
}
