package types

// SLOTS is the number of unit slots in a bank
const SLOTS = 8

// Bank is the decoded content of one bank file.
//
// Handle is never stored in the file.  It is recovered from the camera
// checksum on load and folded back into it on save.
type Bank struct {
	Units   [SLOTS]*Record // nil for an empty slot
	Account *Record
	Handle  uint64

	// Signature as found in the file.  Only used to tell whether the file was current.
	Signature string
}

// Occupied returns units in slot order, skipping empty slots
func (b *Bank) Occupied() []*Record {
	out := []*Record{}
	for _, u := range b.Units {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

func (b *Bank) Clone() *Bank {
	out := &Bank{Handle: b.Handle, Signature: b.Signature}
	if b.Account != nil {
		out.Account = b.Account.Clone()
	}
	for i, u := range b.Units {
		if u != nil {
			out.Units[i] = u.Clone()
		}
	}
	return out
}

// Slot_name is the key a unit is stored under: slot 0 is "01".
func Slot_name(slot int) string {
	return "0" + string(rune('1'+slot))
}
