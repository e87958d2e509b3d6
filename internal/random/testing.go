package random

// SetDefaultForTesting replaces the source returned by Default.
// This is intended for testing only. Returns a function to restore the original source.
// Since this package is internal, this function cannot be accessed by external code.
func SetDefaultForTesting(s Source) func() {
	original := defaultSource
	defaultSource = s
	return func() { defaultSource = original }
}
