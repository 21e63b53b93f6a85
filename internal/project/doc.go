// Package project coordinates the output files of one project.
//
// A Manager holds the project root, the default extension and the overwrite
// policy. It injects the root and extension into each descriptor, then
// resolves and materializes the descriptors in order:
//
//	mgr := project.NewManager("/work/proj", "dat", project.PolicyArchive,
//		project.WithLogger(logger))
//
//	energy := output.New().SetOutputPath("results").SetFileName("energy").SetHeader("step,energy")
//	frames := output.New().SetOutputPath("snapshots").SetFileName("frame").SetSeries(10)
//
//	if err := mgr.InitializeOutputFiles(energy, frames); err != nil {
//		return err
//	}
//
// # Policies
//
// When a descriptor's file already exists:
//   - Panic: stop with a recoverable collision error, touching nothing
//   - Archive: copy the file to <root>/archive/<dir>/<name>, then truncate it
//   - Overwrite: truncate it
//   - Ignore: leave it as is; the descriptor becomes read-only
//
// For a series every member is checked, and every existing member is
// archived.
//
// Plan reports what InitializeOutputFiles would do without touching the
// filesystem; Run does the work and returns the same kind of Report.
package project
