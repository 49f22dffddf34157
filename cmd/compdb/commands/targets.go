package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/ui/style"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the supported targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			r := newRenderer(w)
			header := r.NewStyle().Bold(true).Foreground(style.Iris).Padding(0, 1)
			cell := r.NewStyle().Padding(0, 1)

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(r.NewStyle().Foreground(style.Slate)).
				Headers("TARGET", "TRIPLE", "ARCH", "PLATFORM").
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return header
					}
					return cell
				})

			for _, target := range c.app.Targets() {
				name := target.Name
				if name == domain.DefaultTargetName {
					name += " (default)"
				}
				t.Row(name, target.Triple, target.ArchDir, target.PlatformDir)
			}

			_, err := fmt.Fprintln(w, t.Render())
			return err
		},
	}
}
