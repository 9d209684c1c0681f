package route

import "errors"

var (
	// ErrTooFewDestinations is returned by operators that need at least two destinations
	ErrTooFewDestinations = errors.New("route: not enough destinations")

	// ErrNotEvaluated is returned when the total distance is read before Evaluate ran
	ErrNotEvaluated = errors.New("route: total distance read before route evaluated")

	// ErrIndexOutOfRange is returned for positions outside [0, Len)
	ErrIndexOutOfRange = errors.New("route: index out of range")

	// ErrLengthMismatch is returned when crossover parents differ in length
	ErrLengthMismatch = errors.New("route: parent routes are different lengths")

	// ErrChildLength means a child route came out shorter or longer than its parents.
	// It only happens when the parents do not share one duplicate-free destination set.
	ErrChildLength = errors.New("route: child route is a different length")
)
