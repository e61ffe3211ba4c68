package mentions

// Options holds engine options.
type Options struct {
	// Unit measures every plain-text index accepted or returned.
	Unit Unit
	// CacheSize bounds the number of tokenized markup values kept per
	// engine. Zero disables caching.
	CacheSize int
	// Markdown makes Entities parse plain runs as Markdown.
	Markdown bool
}

// Option is a function that configures Options.
type Option func(*Options)

// WithUnit sets the unit of plain-text indices.
func WithUnit(unit Unit) Option {
	return func(opts *Options) {
		opts.Unit = unit
	}
}

// WithCacheSize sets how many tokenized markup values are cached.
func WithCacheSize(n int) Option {
	return func(opts *Options) {
		opts.CacheSize = n
	}
}

// WithMarkdown sets whether Entities treats plain runs as Markdown.
func WithMarkdown(enable bool) Option {
	return func(opts *Options) {
		opts.Markdown = enable
	}
}

// defaultOptions returns the default engine options.
func defaultOptions() *Options {
	return &Options{
		Unit:      UnitRune,
		CacheSize: 64,
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
