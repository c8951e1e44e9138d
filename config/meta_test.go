package config

import (
	"errors"
	"testing"

	"github.com/etnz/folio"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestMetaAttributes(t *testing.T) {
	doc := `
meta:
    - match:
        name: H1
      apply:
        test_attr: val_a
    - match:
        name: H2
      apply:
        test_attr:
            val_a: 30%
            val_b: 50%
`
	c, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := c.MetaAttributes([]folio.Holding{{Name: "H1"}, {Name: "H2"}})
	if err != nil {
		t.Fatalf("MetaAttributes() error = %v", err)
	}
	want := map[string]folio.AttrWeights{
		"test_attr": {
			"val_a": {"H1": 1, "H2": 0.3},
			"val_b": {"H2": 0.5},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MetaAttributes() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaComposition(t *testing.T) {
	doc := `
meta:
    - match:
        name: H1
      apply:
        attr_1: val_a
      composition:
        name:
            H2: 50%
            H3: 50%
    - match:
        name: H2
      apply:
        attr_1: val_b
        attr_2:
            val_a: 50%
            val_b: 50%
    - match:
        name: H3
      apply:
        attr_1: val_b
        attr_2: val_a
`
	c, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := c.MetaAttributes([]folio.Holding{{Name: "H1"}})
	if err != nil {
		t.Fatalf("MetaAttributes() error = %v", err)
	}
	// attr_1 is applied on H1 and overrides the one of its components.
	want := map[string]folio.AttrWeights{
		"attr_1": {"val_a": {"H1": 1}},
		"attr_2": {"val_a": {"H1": 0.75}, "val_b": {"H1": 0.25}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MetaAttributes() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaNestedComposition(t *testing.T) {
	doc := `
meta:
    - match: {ticker: FUND}
      composition:
        ticker: {ETF: 40%, FB: 60%}
    - match: {ticker: ETF}
      composition:
        isin: {US0378331005: 100%}
    - match: {isin: US0378331005}
      apply: {sector: tech}
    - match: {ticker: FB}
      apply: {sector: {tech: 50%, media: 50%}}
`
	c, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := c.MetaAttributes([]folio.Holding{{Ticker: "FUND"}, {Ticker: "FB"}})
	if err != nil {
		t.Fatalf("MetaAttributes() error = %v", err)
	}
	want := map[string]folio.AttrWeights{
		"sector": {
			"tech":  {"FUND": 0.7, "FB": 0.5},
			"media": {"FUND": 0.3, "FB": 0.5},
		},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("MetaAttributes() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetaCompositionCycle(t *testing.T) {
	doc := `
meta:
    - match: {name: A}
      composition: {name: {B: 100%}}
    - match: {name: B}
      composition: {name: {A: 100%}}
`
	c, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := c.MetaAttributes([]folio.Holding{{Name: "A"}}); !errors.Is(err, folio.ErrInvalidFieldValue) {
		t.Errorf("MetaAttributes() error = %v, want %v", err, folio.ErrInvalidFieldValue)
	}
}
