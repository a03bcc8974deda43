package scraper

import "net/url"

// Resolver normalizes possibly-relative hyperlink references against the
// configured site origin.
type Resolver struct {
	base *url.URL
}

// NewResolver creates a resolver for the given origin. A malformed origin
// leaves the resolver inert: every reference comes back unchanged.
func NewResolver(origin string) *Resolver {
	base, err := url.Parse(origin)
	if err != nil {
		base = nil
	}
	return &Resolver{base: base}
}

// Resolve builds an absolute URL for ref. Malformed references come back
// unchanged rather than failing; downstream consumers tolerate a
// non-absolute value in that case.
func (r *Resolver) Resolve(ref string) string {
	if r.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return r.base.ResolveReference(u).String()
}
