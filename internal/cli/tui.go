package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	gio "github.com/graphstage/graphstage/pkg/io"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BatchListModel - Interactive batch file selection
// =============================================================================

// batchEntry is one selectable recorded batch.
type batchEntry struct {
	Path  string
	Mode  string
	Nodes int
	Edges int
}

// BatchListModel is the bubbletea model for interactive batch selection.
type BatchListModel struct {
	Batches  []batchEntry
	Cursor   int
	Selected *batchEntry
	Height   int
	Offset   int
}

// NewBatchListModel creates a new batch list model.
func NewBatchListModel(batches []batchEntry) BatchListModel {
	return BatchListModel{
		Batches: batches,
		Height:  15,
	}
}

func (m BatchListModel) Init() tea.Cmd {
	return nil
}

func (m BatchListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Batches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			b := m.Batches[m.Cursor]
			m.Selected = &b
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BatchListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Batch"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Batches) {
		end = len(m.Batches)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Batches[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		mode := e.Mode
		if mode == "" {
			mode = "incremental"
		}

		rows = append(rows, []string{
			cursor,
			filepath.Base(e.Path),
			mode,
			fmt.Sprintf("%d", e.Nodes),
			fmt.Sprintf("%d", e.Edges),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Batch", "Mode", "Nodes", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Batches))))

	return b.String()
}

// pickBatch runs the interactive picker over the given batch files and
// returns the chosen path, or "" when the user quit without selecting.
func pickBatch(paths []string) (string, error) {
	entries := make([]batchEntry, 0, len(paths))
	for _, p := range paths {
		bf, err := gio.ImportBatch(p)
		if err != nil {
			return "", err
		}
		entries = append(entries, batchEntry{
			Path:  p,
			Mode:  bf.Mode,
			Nodes: len(bf.Nodes),
			Edges: len(bf.Edges),
		})
	}

	final, err := tea.NewProgram(NewBatchListModel(entries)).Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	model, ok := final.(BatchListModel)
	if !ok || model.Selected == nil {
		return "", nil
	}
	return model.Selected.Path, nil
}
