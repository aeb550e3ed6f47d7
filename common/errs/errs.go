package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a referenced account does not exist.
	NotFound = ErrorKind("Not Found")

	// Duplicate is returned when an account already exists at a derived
	// address (re-initialization, duplicate manager or listing).
	Duplicate = ErrorKind("Duplicate")

	// Unauthorized is returned when the signer does not hold the role an
	// instruction requires.
	Unauthorized = ErrorKind("Unauthorized")

	// InvalidArgument is returned for malformed instruction inputs.
	InvalidArgument = ErrorKind("Invalid Argument")

	// CapacityExceeded is returned when minting a ticket beyond the
	// capacity of its event.
	CapacityExceeded = ErrorKind("Capacity Exceeded")

	// InsufficientFunds is returned when an account balance cannot cover a
	// transfer, a withdrawal or the rent-exempt reserve.
	InsufficientFunds = ErrorKind("Insufficient Funds")

	Unsupported        = ErrorKind("Unsupported")
	OverflowUint64     = ErrorKind("overflow uint64")
	SomethingWentWrong = ErrorKind("Something went wrong")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
