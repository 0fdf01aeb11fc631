package gitx

// ExecResult is the outcome of a single git invocation. A nonzero exit
// code is an unsuccessful result, not an error.
type ExecResult struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout when present, falling back to stderr. Git writes
// most human-facing text to stdout but reports failures on stderr.
func (r ExecResult) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}
