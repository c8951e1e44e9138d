package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/folio"
	"gopkg.in/yaml.v3"
)

// Percent is a fraction written "NN%" in a project file.
type Percent float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Percent) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return fmt.Errorf("line %d: %w: percentage %q", node.Line, folio.ErrInvalidFieldValue, s)
	}
	*p = Percent(v / 100)
	return nil
}

// Assignment is the value of an attribute for a holding. It is written either
// as a single value (weight 1) or as a map of value to percentage.
type Assignment map[string]Percent

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Assignment) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = Assignment{node.Value: 1}
		return nil
	case yaml.MappingNode:
		m := make(map[string]Percent)
		if err := node.Decode(&m); err != nil {
			return err
		}
		*a = m
		return nil
	}
	return fmt.Errorf("line %d: %w: an attribute is a value or a map of percentages", node.Line, folio.ErrInvalidFieldValue)
}

// Composition lists the components of a holding, by identifier kind.
type Composition struct {
	Name   map[string]Percent `yaml:"name"`
	Ticker map[string]Percent `yaml:"ticker"`
	ISIN   map[string]Percent `yaml:"isin"`
}

// components returns a match and its share for every component.
func (c Composition) components() []component {
	var cs []component
	add := func(m map[string]Percent, match func(string) Match) {
		for _, id := range slices.Sorted(maps.Keys(m)) {
			cs = append(cs, component{match: match(id), share: float64(m[id])})
		}
	}
	add(c.Name, func(id string) Match { return Match{Name: id} })
	add(c.Ticker, func(id string) Match { return Match{Ticker: id} })
	add(c.ISIN, func(id string) Match { return Match{ISIN: id} })
	return cs
}

type component struct {
	match Match
	share float64
}

// Meta describes the holdings it matches.
//
// Composition attributes are computed first, blending the attributes of the
// components, then Apply overrides them.
type Meta struct {
	Match       *Match                `yaml:"match"`
	Apply       map[string]Assignment `yaml:"apply"`
	Composition *Composition          `yaml:"composition"`
}

// attributes maps an attribute to its values weights.
type attributes map[string]folio.AttrWeights

func (a attributes) set(attr, value, key string, w float64) {
	if a[attr] == nil {
		a[attr] = make(folio.AttrWeights)
	}
	if a[attr][value] == nil {
		a[attr][value] = make(map[string]float64)
	}
	a[attr][value][key] = w
}

func (a attributes) add(attr, value, key string, w float64) {
	a.set(attr, value, key, a[attr][value][key]+w)
}

// unset removes every value of attr for key.
func (a attributes) unset(attr, key string) {
	for _, holdings := range a[attr] {
		delete(holdings, key)
	}
}

// prune removes values with no holding, then attributes with no value.
func (a attributes) prune() {
	for attr, values := range a {
		maps.DeleteFunc(values, func(_ string, holdings map[string]float64) bool { return len(holdings) == 0 })
		if len(values) == 0 {
			delete(a, attr)
		}
	}
}

// find returns the first holding matching m.
func find(m Match, holdings []folio.Holding) (folio.Holding, bool) {
	for _, h := range holdings {
		if m.Matches(h) {
			return h, true
		}
	}
	return folio.Holding{}, false
}

// declared returns the holdings described by meta entries.
func (c *Config) declared() []folio.Holding {
	holdings := make([]folio.Holding, 0, len(c.meta))
	for _, m := range c.meta {
		holdings = append(holdings, m.Match.Holding())
	}
	return holdings
}

// MetaAttributes returns, for every attribute, the weight of each of its
// values in the given holdings, indexed by holding key.
//
// A holding with no value for an attribute is not listed in it.
func (c *Config) MetaAttributes(holdings []folio.Holding) (map[string]folio.AttrWeights, error) {
	attrs, err := c.metaAttributes(holdings, nil)
	if err != nil {
		return nil, err
	}
	attrs.prune()
	return attrs, nil
}

// metaAttributes computes the attributes of holdings. path holds the keys of
// the holdings being composed.
func (c *Config) metaAttributes(holdings []folio.Holding, path []string) (attributes, error) {
	attrs := make(attributes)
	for _, entry := range c.meta {
		h, ok := find(*entry.Match, holdings)
		if !ok {
			continue
		}
		key, err := h.Key()
		if err != nil {
			return nil, err
		}
		if entry.Composition != nil {
			if slices.Contains(path, key) {
				return nil, fmt.Errorf("%w: %q is a component of itself", folio.ErrInvalidFieldValue, key)
			}
			if err := c.compose(attrs, key, *entry.Composition, holdings, append(path, key)); err != nil {
				return nil, err
			}
		}
		for _, attr := range slices.Sorted(maps.Keys(entry.Apply)) {
			attrs.unset(attr, key)
			for value, w := range entry.Apply[attr] {
				attrs.set(attr, value, key, float64(w))
			}
		}
	}
	return attrs, nil
}

// compose adds to key the attributes of its components, each one weighted by
// its share.
func (c *Config) compose(attrs attributes, key string, comp Composition, holdings []folio.Holding, path []string) error {
	shares := make(map[string]float64)
	var subs []folio.Holding
	for _, cp := range comp.components() {
		sub, ok := find(cp.match, holdings)
		if !ok {
			sub, ok = find(cp.match, c.declared())
		}
		if !ok {
			continue
		}
		subKey, err := sub.Key()
		if err != nil {
			return err
		}
		if _, seen := shares[subKey]; !seen {
			subs = append(subs, sub)
		}
		shares[subKey] = cp.share
	}

	subAttrs, err := c.metaAttributes(subs, path)
	if err != nil {
		return err
	}
	for attr, values := range subAttrs {
		for value, weights := range values {
			for subKey, w := range weights {
				attrs.add(attr, value, key, shares[subKey]*w)
			}
		}
	}
	return nil
}
