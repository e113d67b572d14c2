// Package fault holds single instances of errors, so callers can compare
// with errors.Is instead of matching on strings.
//
// Call sites that need to say more wrap one of these with fmt.Errorf("%w: ...").
package fault

// error base
type GenericError string

// classes of errors
type DecodeError GenericError
type InvalidError GenericError
type MismatchError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RangeError GenericError

// keep in alphabetic order
var (
	ErrAmbiguousName        = InvalidError("ambiguous name")
	ErrBankChanged          = ProcessError("bank file changed on disk since it was loaded")
	ErrHandleUndetermined   = InvalidError("handle cannot be determined without any units")
	ErrInconsistentChecksum = MismatchError("inconsistent checksum")
	ErrInvalidCharacter     = DecodeError("character outside alphabet")
	ErrInvalidNumber        = InvalidError("not a non-negative whole number")
	ErrInvalidSlot          = InvalidError("unit slot must be 1 to 8")
	ErrMissingKey           = NotFoundError("key not found")
	ErrMissingSection       = NotFoundError("section not found")
	ErrNoSuchField          = NotFoundError("no such field")
	ErrNotStashed           = NotFoundError("nothing loaded, use load first")
	ErrSchemaMismatch       = MismatchError("schema mismatch")
	ErrSlotEmpty            = NotFoundError("unit slot is empty")
	ErrSlotOccupied         = InvalidError("unit slot is already occupied")
	ErrValueCount           = InvalidError("wrong number of values for schema")
	ErrValueOutOfRange      = RangeError("value out of range")
)

func (e GenericError) Error() string  { return string(e) }
func (e DecodeError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e MismatchError) Error() string { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RangeError) Error() string    { return string(e) }
