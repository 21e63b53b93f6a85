// Package tui provides a Bubble Tea terminal user interface for outfiles.
//
// The UI walks through one batch: it shows the planned output files and the
// ones that already exist, runs the initialization on enter and, when the
// Panic policy refuses to touch an existing file, asks whether to archive,
// overwrite or ignore it before retrying with fresh descriptors.
//
//	res, err := tui.Run(settings, tui.WithVerbose(true))
//	if err != nil {
//		return err
//	}
//	if res.Aborted {
//		os.Exit(1)
//	}
//
// The CLI can also open the UI directly at the collision prompt with
// WithCollision after a non-interactive run was denied.
package tui
