package customerrors

import "errors"

var (
	ErrTickerNotFound = errors.New("ticker not found. Check the symbol and try again")
	ErrStockNotFound  = errors.New("no stored analysis for this ticker")
	ErrUnknownSection = errors.New("unknown analysis section")
	ErrEmptyReport    = errors.New("model returned an empty report")
)
