package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/handiism/outfiles/internal/project"
)

// Format represents a supported report format.
type Format int

const (
	// FormatText renders one line per descriptor followed by a summary.
	FormatText Format = iota

	// FormatJSON renders the report as indented JSON.
	FormatJSON

	// FormatYAML renders the report as a YAML document.
	FormatYAML
)

var formatNames = []string{"text", "json", "yaml"}

// String returns the flag name of the format.
func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown report format %q (want one of %s)", s, strings.Join(formatNames, ", "))
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Renderer renders batch reports in one format.
//
// Example:
//
//	r := NewRenderer(FormatText, false)
//	out, err := r.Render(rep)
//
//	// Result:
//	// project /work/proj (policy Archive)
//	//   archived     /work/proj/results/energy.dat
//	//                -> /work/proj/archive/results/energy.dat
//	//   created      /work/proj/snapshots/frame_0.xyz
//	// 2 file(s): 1 created, 1 archived
type Renderer struct {
	format Format
	styled bool // For text: colorize actions with lipgloss
}

// NewRenderer creates a new Renderer.
//
// Parameters:
//   - format: The report format to generate
//   - styled: For text format, whether to colorize the output
//     (ignored for other formats)
func NewRenderer(format Format, styled bool) *Renderer {
	return &Renderer{
		format: format,
		styled: styled,
	}
}

// Render returns the report in the renderer's format.
func (r *Renderer) Render(rep *project.Report) (string, error) {
	switch r.format {
	case FormatJSON:
		return renderJSON(rep)
	case FormatYAML:
		return renderYAML(rep)
	default:
		return r.renderText(rep), nil
	}
}

// Write renders the report to w.
func (r *Renderer) Write(w io.Writer, rep *project.Report) error {
	out, err := r.Render(rep)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderJSON(rep *project.Report) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render json report: %w", err)
	}
	return string(data) + "\n", nil
}

func renderYAML(rep *project.Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return "", fmt.Errorf("render yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("render yaml report: %w", err)
	}
	return buf.String(), nil
}

// renderText generates the human-readable report.
//
//	project <root> (policy <policy>)
//	  <action>     <path>
//	               -> <archive copy>
//	<n> file(s): <count> <action>, ...
func (r *Renderer) renderText(rep *project.Report) string {
	var sb strings.Builder

	sb.WriteString(r.style(headerStyle, fmt.Sprintf("project %s (policy %s)", rep.Root, rep.Policy)))
	sb.WriteString("\n")

	for _, o := range rep.Outcomes {
		path := o.Path
		if path == "" {
			path = "<unresolved>"
		}
		action := fmt.Sprintf("%-12s", o.Action)
		sb.WriteString(fmt.Sprintf("  %s %s\n", r.style(actionStyle(o.Action), action), path))

		for _, dst := range o.Archived {
			sb.WriteString(r.style(dimStyle, fmt.Sprintf("  %-12s -> %s", "", dst)))
			sb.WriteString("\n")
		}
		if o.Error != "" {
			sb.WriteString(r.style(errorStyle, fmt.Sprintf("  %-12s %s", "", o.Error)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(summary(rep))
	sb.WriteString("\n")
	return sb.String()
}

// summary counts outcomes per action, skipping actions that did not occur.
func summary(rep *project.Report) string {
	actions := []project.Action{
		project.ActionCreated,
		project.ActionArchived,
		project.ActionOverwritten,
		project.ActionIgnored,
		project.ActionDenied,
		project.ActionFailed,
	}

	var parts []string
	for _, a := range actions {
		if n := rep.Count(a); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, a))
		}
	}
	if len(parts) == 0 {
		return "0 file(s)"
	}
	return fmt.Sprintf("%d file(s): %s", len(rep.Outcomes), strings.Join(parts, ", "))
}

func actionStyle(a project.Action) lipgloss.Style {
	switch a {
	case project.ActionCreated, project.ActionOverwritten:
		return successStyle
	case project.ActionArchived, project.ActionIgnored:
		return warningStyle
	default:
		return errorStyle
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}
