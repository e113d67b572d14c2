// Package checksum computes the lightweight integrity values stored in a
// bank's account/camera key, and recovers the player handle hidden in them.
//
// The camera value packs two sums:
//
//	account: checksum of the account record
//	units:   sum of every unit checksum, with the handle folded in
//
// The handle is never stored anywhere else, so on load it is recovered by
// solving for it, and on save it is folded back in.
package checksum

import (
	"fmt"

	"bankedit/fault"
	"bankedit/tables"
	"bankedit/types"
)

// Engine holds the one thing that differs between map versions: whether the
// handle is added to every unit checksum or once to their sum.
type Engine struct {
	Handle_per_unit bool
}

func New(handle_per_unit bool) *Engine {
	return &Engine{Handle_per_unit: handle_per_unit}
}

// Of sums the checksummed fields of a record.  Preference fields do not count.
func Of(r *types.Record) uint64 {
	sum := uint64(0)
	for i, f := range r.Schema.Fields {
		if f.Checksum {
			sum += r.Values[i]
		}
	}
	return sum
}

// Unit returns one unit's checksum with the handle folded in
func (e *Engine) Unit(r *types.Record, handle uint64) uint64 {
	if e.Handle_per_unit {
		return Of(r) + handle
	}
	return Of(r)
}

// Units returns the "units" half of the camera value.
func (e *Engine) Units(units []*types.Record, handle uint64) uint64 {
	sum := uint64(0)
	for _, u := range units {
		sum += e.Unit(u, handle)
	}
	if !e.Handle_per_unit {
		sum += handle
	}
	return sum
}

// Camera_blob packs the account checksum and unit checksum sum into the account/camera value.
func (e *Engine) Camera_blob(account_checksum uint64, units []*types.Record, handle uint64) (string, error) {
	r, err := tables.Camera.Make(map[string]uint64{
		"account": account_checksum,
		"units":   e.Units(units, handle),
	})
	if err != nil {
		return "", err
	}
	return r.Encode()
}

// Bank_camera is Camera_blob for everything in a bank
func (e *Engine) Bank_camera(b *types.Bank) (string, error) {
	return e.Camera_blob(Of(b.Account), b.Occupied(), b.Handle)
}

// Split unpacks a camera value into its two sums.
func Split(blob string) (account uint64, units uint64, err error) {
	r, err := tables.Camera.Decode(blob)
	if err != nil {
		return 0, 0, err
	}
	return r.Must_get("account"), r.Must_get("units"), nil
}

// Derive_handle recovers the handle from a camera value and the units it was computed from.
//
// With a per-unit handle the unit sum is S0 + n*handle, so the difference
// must divide exactly by the number of units.  Anything else means the
// blob and the units did not come from the same bank.
func (e *Engine) Derive_handle(blob string, units []*types.Record) (uint64, error) {
	_, total, err := Split(blob)
	if err != nil {
		return 0, err
	}

	s0 := e.Units(units, 0)
	if total < s0 {
		return 0, fmt.Errorf("%w: unit checksums sum to %v, camera holds only %v", fault.ErrInconsistentChecksum, s0, total)
	}
	diff := total - s0

	if !e.Handle_per_unit {
		return diff, nil
	}

	n := uint64(len(units))
	if n == 0 {
		return 0, fault.ErrHandleUndetermined
	}
	if diff%n != 0 {
		return 0, fmt.Errorf("%w: %v does not divide evenly between %v units", fault.ErrInconsistentChecksum, diff, n)
	}
	return diff / n, nil
}

// Verify recomputes the camera value for a bank and compares it with blob.
func (e *Engine) Verify(blob string, b *types.Bank) error {
	account, units, err := Split(blob)
	if err != nil {
		return err
	}
	if want := Of(b.Account); account != want {
		return fmt.Errorf("%w: account checksum is %v, expected %v", fault.ErrInconsistentChecksum, account, want)
	}
	if want := e.Units(b.Occupied(), b.Handle); units != want {
		return fmt.Errorf("%w: unit checksum is %v, expected %v", fault.ErrInconsistentChecksum, units, want)
	}
	return nil
}
