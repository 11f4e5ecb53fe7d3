package indexing

import "io"

// BuildOptions controls a single index build.
type BuildOptions struct {
	// Limit bounds the number of assets processed. Zero means no limit.
	Limit int

	// Progress receives snapshots at each report interval. Sends never block.
	Progress chan<- Progress

	// Writer receives a carriage-return progress line at each report interval.
	Writer io.Writer
}

// BuildOption configures a build.
type BuildOption func(*BuildOptions)

// WithLimit processes at most n not-yet-indexed assets.
func WithLimit(n int) BuildOption {
	return func(o *BuildOptions) {
		if n > 0 {
			o.Limit = n
		}
	}
}

// WithProgress streams progress snapshots to ch.
func WithProgress(ch chan<- Progress) BuildOption {
	return func(o *BuildOptions) {
		o.Progress = ch
	}
}

// WithProgressWriter prints progress to w, typically os.Stderr.
func WithProgressWriter(w io.Writer) BuildOption {
	return func(o *BuildOptions) {
		o.Writer = w
	}
}

// ApplyOptions folds opts into a BuildOptions value.
func ApplyOptions(opts ...BuildOption) BuildOptions {
	var o BuildOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LimitReached reports whether processed has hit the configured limit.
func (o BuildOptions) LimitReached(processed int) bool {
	return o.Limit > 0 && processed >= o.Limit
}
