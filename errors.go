package folio

import "errors"

// Error kinds. Operations wrap them with the offending key (holding,
// attribute, currency), test them with errors.Is.
var (
	ErrCurrencyMismatch       = errors.New("currency mismatch")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
	ErrMissingIdentifier      = errors.New("missing identifier")
	ErrInvalidFieldValue      = errors.New("invalid field value")
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrUnsupportedAction      = errors.New("unsupported action")
	ErrUnknownHoldingCurrency = errors.New("unknown holding currency")
	ErrOverAllocation         = errors.New("allocation above 100%")
	ErrMalformedPrice         = errors.New("malformed price string")
	ErrUnparseablePrice       = errors.New("unparseable price")
	ErrHoldingKeyMismatch     = errors.New("holding key mismatch")
)
