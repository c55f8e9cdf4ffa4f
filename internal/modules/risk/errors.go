package risk

import "errors"

// ErrInsufficientData is returned when fewer than 2 aligned return
// series or fewer than 2 observations are available. Degenerate
// statistics (a single-asset "correlation" of 1.0) are never reported
// as if they were informative.
var ErrInsufficientData = errors.New("insufficient data")

// ErrInvalidScenario is returned when stress-test inputs are out of
// range (correlation shock outside [-1, 1] or a negative volatility
// factor), since an invalid correlation matrix can produce a negative
// variance under the square root.
var ErrInvalidScenario = errors.New("invalid stress scenario")
