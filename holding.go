package folio

import "fmt"

// Holding is a position in a single security.
//
// A security can be identified by its ISIN, its ticker or its name, the key
// of a holding is the first one available in that order.
type Holding struct {
	Name     string   `json:"name,omitempty"`
	Ticker   string   `json:"ticker,omitempty"`
	ISIN     string   `json:"isin,omitempty"`
	Quantity Quantity `json:"quantity"`
}

// Key returns the identifier of the holding.
func (h Holding) Key() (string, error) {
	return holdingKey(h.ISIN, h.Ticker, h.Name)
}

func holdingKey(isin, ticker, name string) (string, error) {
	switch {
	case isin != "":
		return isin, nil
	case ticker != "":
		return ticker, nil
	case name != "":
		return name, nil
	}
	return "", ErrMissingIdentifier
}

func (h Holding) String() string {
	key, err := h.Key()
	if err != nil {
		key = "?"
	}
	return fmt.Sprintf("%s x %s", key, h.Quantity)
}

// Add returns a holding with both quantities summed. Both holdings must share the same key.
func (h Holding) Add(o Holding) (Holding, error) {
	if err := sameKey(h, o); err != nil {
		return Holding{}, err
	}
	h.Quantity = h.Quantity.Add(o.Quantity)
	return h, nil
}

// Sub returns a holding with o's quantity subtracted. Both holdings must share the same key.
func (h Holding) Sub(o Holding) (Holding, error) {
	if err := sameKey(h, o); err != nil {
		return Holding{}, err
	}
	h.Quantity = h.Quantity.Sub(o.Quantity)
	return h, nil
}

// Neg returns the holding with the opposite quantity.
func (h Holding) Neg() Holding {
	h.Quantity = h.Quantity.Neg()
	return h
}

func sameKey(a, b Holding) error {
	ka, err := a.Key()
	if err != nil {
		return err
	}
	kb, err := b.Key()
	if err != nil {
		return err
	}
	if ka != kb {
		return fmt.Errorf("%w: %q != %q", ErrHoldingKeyMismatch, ka, kb)
	}
	return nil
}
