// Package report renders the outcome of an output initialization batch.
//
// A batch run or plan produces a *project.Report listing, per descriptor,
// the resolved path, whether it collided with existing files and what the
// collision policy did about it. The Renderer turns that into text for a
// terminal or into JSON/YAML for scripts:
//
//	r := report.NewRenderer(report.FormatText, isatty.IsTerminal(os.Stdout.Fd()))
//	if err := r.Write(os.Stdout, rep); err != nil {
//		return err
//	}
//
// Supported formats:
//   - Text (optionally styled with lipgloss)
//   - JSON (indented)
//   - YAML
package report
