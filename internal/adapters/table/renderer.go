// Package table renders the pipeline status view as a terminal table.
package table

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/mill/internal/ui/style"
	"go.trai.ch/zerr"
)

// Headers are the column titles of the status table.
var Headers = []string{"Name", "Parameters", "Filepath", "Exists", "Checksum"}

const existsCol = 3

// Renderer implements ports.Renderer using lipgloss tables.
type Renderer struct{}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderStatus writes the status table for rows to w.
func (r *Renderer) RenderStatus(w io.Writer, rows []domain.StatusRow) error {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		exists := "False"
		if row.Exists {
			exists = "True"
		}
		cells[i] = []string{row.Name, row.ParametersText(), row.Output.String(), exists, row.Checksum}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.Muted)).
		Headers(Headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return style.Header.Padding(0, 1)
			case col == existsCol && rows[row].Exists:
				return style.Present.Padding(0, 1)
			case col == existsCol:
				return style.Missing.Padding(0, 1)
			default:
				return cell
			}
		})

	if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
		return zerr.Wrap(err, "failed to write status table")
	}
	return nil
}
