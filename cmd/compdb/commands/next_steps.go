package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/compdb/internal/ui/output"
	"go.trai.ch/compdb/internal/ui/style"
)

func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile(w))
	return r
}

// renderNextSteps prints the editor setup hints shown after a successful run.
func renderNextSteps(w io.Writer, program string) error {
	r := newRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(style.Iris)
	number := r.NewStyle().Foreground(style.Slate)

	steps := []string{
		"Make sure clangd is installed",
		"Configure your editor to use clangd",
		"The .clangd file in the project root provides additional configuration",
		"If you change target architecture, re-run: " + program + " <target>",
	}

	var sb strings.Builder
	sb.WriteString("\n" + title.Render("Next steps:") + "\n")
	for i, step := range steps {
		sb.WriteString(number.Render(fmt.Sprintf("%d.", i+1)) + " " + step + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
