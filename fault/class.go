package fault

import "errors"

// determine the class of an error, looking through any wrapping
func IsErrDecode(e error) bool   { var t DecodeError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrMismatch(e error) bool { var t MismatchError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
func IsErrRange(e error) bool    { var t RangeError; return errors.As(e, &t) }
