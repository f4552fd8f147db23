package reportfmt

// PrettyOpts configures human-readable report rendering.
type PrettyOpts struct {
	Color bool
	// Quiet drops OK and SKIP lines; warnings, conflicts, errors and the
	// run summary are always shown.
	Quiet bool
	// Verbose adds the note column to OK lines as well.
	Verbose bool
}

// JSONOpts configures JSON report rendering.
type JSONOpts struct {
	// IncludeSkips keeps already-present and no-match entries in the
	// per-file rule arrays. They are included by default from Pretty's
	// point of view, so this defaults to true at the call sites.
	IncludeSkips bool
}
