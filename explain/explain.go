// Package explain holds the human-readable descriptions attached to SPF,
// DMARC and DKIM tags.
//
// A Catalog is immutable once built. Parsers take a Catalog as an argument so
// callers can substitute their own wording (or a partial table in tests)
// without touching shared state:
//
//	c := explain.New(map[string]string{"v": "Version tag."}, nil, "Unknown tag")
//	res := spf.ParseWith(c, "v=spf1 -all")
//
// Lookups never fail. A miss yields the catalog's generic unknown text.
package explain

import (
	"fmt"
	"maps"
)

// Catalog maps tag names, and for multi-valued tags tag+value pairs, to
// descriptions.
type Catalog struct {
	tags    map[string]string
	values  map[string]map[string]string
	unknown string
}

// New builds a Catalog from the given tables. The maps are copied, so later
// changes by the caller do not affect the catalog.
func New(tags map[string]string, values map[string]map[string]string, unknown string) *Catalog {
	c := &Catalog{
		tags:    maps.Clone(tags),
		values:  make(map[string]map[string]string, len(values)),
		unknown: unknown,
	}
	if c.tags == nil {
		c.tags = map[string]string{}
	}
	for tag, vals := range values {
		c.values[tag] = maps.Clone(vals)
	}
	return c
}

// Lookup returns the description of tag and whether the catalog has one.
func (c *Catalog) Lookup(tag string) (string, bool) {
	s, ok := c.tags[tag]
	return s, ok
}

// Explain returns the description of tag, or the generic unknown text.
func (c *Catalog) Explain(tag string) string {
	if s, ok := c.tags[tag]; ok {
		return s
	}
	return c.unknown
}

// ExplainValue returns the description of a tag whose meaning depends on its
// value, such as the SPF "all" qualifiers or the DMARC "p" policy.
func (c *Catalog) ExplainValue(tag, value string) string {
	if vals, ok := c.values[tag]; ok {
		if s, ok := vals[value]; ok {
			return s
		}
	}
	return fmt.Sprintf("Unknown %s value: %s", tag, value)
}

// HasValues reports whether tag is explained per value.
func (c *Catalog) HasValues(tag string) bool {
	_, ok := c.values[tag]
	return ok
}

// Unknown returns the generic text used for lookup misses.
func (c *Catalog) Unknown() string {
	return c.unknown
}
