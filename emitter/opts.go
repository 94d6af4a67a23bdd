package emitter

type config struct {
	width   int
	unicode bool
}

type Option func(*config)

// Width sets the preferred line width. Negative means unlimited, the
// default.
func Width(n int) Option {
	return func(c *config) { c.width = n }
}

// Unicode controls whether non-ASCII characters are written as is (the
// default) or escaped in double quoted scalars.
func Unicode(v bool) Option {
	return func(c *config) { c.unicode = v }
}
