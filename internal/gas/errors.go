package gas

import "errors"

var (
	// ErrInvalidParams indicates a substance constant outside its valid range.
	ErrInvalidParams = errors.New("gas: invalid parameters")

	// ErrCovolume indicates a volume at or below the excluded volume n·b.
	ErrCovolume = errors.New("gas: volume at or below covolume")

	// ErrNonPositive indicates a non-positive volume, pressure or temperature.
	ErrNonPositive = errors.New("gas: non-positive state variable")
)
