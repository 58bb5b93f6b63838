package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/bud/internal/ui/output"
	"go.trai.ch/bud/internal/ui/style"
)

// Summary describes a successful build.
type Summary struct {
	Tasks     int
	Executed  int
	Cached    int
	OutputDir string
	TreeHash  string
	Duration  time.Duration
}

// Render writes the summary to w, colored unless NO_COLOR is set.
func (s *Summary) Render(w io.Writer) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	check := r.NewStyle().Foreground(style.Green).Bold(true)
	dim := r.NewStyle().Foreground(style.Slate)

	noun := "tasks"
	if s.Tasks == 1 {
		noun = "task"
	}

	_, err := fmt.Fprintf(w, "%s Built %d %s in %.3fs %s\n  %s %s %s\n",
		check.Render(style.Check),
		s.Tasks, noun, s.Duration.Seconds(),
		dim.Render(fmt.Sprintf("(%d executed, %d cached)", s.Executed, s.Cached)),
		style.Arrow, s.OutputDir,
		dim.Render("["+s.TreeHash+"]"),
	)
	return err
}
