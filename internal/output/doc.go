// Package output defines the output file descriptor used throughout outfiles.
//
// # File
//
// File describes one logical output file, or a numbered series of sibling
// files, and moves through three states:
//
//	StateBuilder  -> identity fields are being configured (first write wins)
//	StateResolved -> the path is computed; identity changes only via Change*
//	StateWritable -> the file exists on disk and may be appended to
//
// A file that the Ignore collision policy leaves untouched ends in
// StateReadOnly instead of StateWritable.
//
//	f := output.New().
//	    SetHeader("id,value").
//	    SetProjectPath("proj").
//	    SetOutputPath("dir").
//	    SetFileName("out").
//	    SetExtension("dat").
//	    Build()
//	// f.Path() == "proj/dir/out.dat" (canonical once the file exists)
//
//	if err := f.InitializeOutput(); err != nil {
//	    return err
//	}
//	w, err := f.Open() // append mode
//
// # Series
//
// SetSeries(n) turns the descriptor into a family of n files named
// name_0.ext ... name_{n-1}.ext. InitializeOutput creates all of them at
// once and leaves the index at n-1; ChangeFileIndex selects another member.
package output
