package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"bankedit/fault"
	"bankedit/tables"
	"bankedit/types"
)

// Evil global variables
var g_stash_filename = "bankedit.tmp"

// stashed is a loaded bank between invocations.  Records are kept as bare
// values; the schemas are tables, not data.
type stashed struct {
	Filename    string           `cbor:"1,keyasint"`
	Fingerprint []byte           `cbor:"2,keyasint"`
	Handle      uint64           `cbor:"3,keyasint"`
	Signature   string           `cbor:"4,keyasint"`
	Account     []uint64         `cbor:"5,keyasint"`
	Units       map[int][]uint64 `cbor:"6,keyasint"`
}

func fingerprint(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}

func file_fingerprint(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return fingerprint(data), nil
}

func stash(stash_filename string, filename string, file_fingerprint []byte, bank *types.Bank) error {
	s := stashed{
		Filename:    filename,
		Fingerprint: file_fingerprint,
		Handle:      bank.Handle,
		Signature:   bank.Signature,
		Account:     bank.Account.Values,
		Units:       map[int][]uint64{},
	}
	for slot, u := range bank.Units {
		if u != nil {
			s.Units[slot] = u.Values
		}
	}

	data, err := cbor.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(stash_filename, data, 0600)
}

func retrieve(stash_filename string) (string, []byte, *types.Bank, error) {
	data, err := os.ReadFile(stash_filename)
	if os.IsNotExist(err) {
		return "", nil, nil, fault.ErrNotStashed
	}
	if err != nil {
		return "", nil, nil, err
	}

	s := stashed{}
	err = cbor.Unmarshal(data, &s)
	if err != nil {
		return "", nil, nil, fmt.Errorf("stash: %q  error: %w", stash_filename, err)
	}

	bank := &types.Bank{
		Handle:    s.Handle,
		Signature: s.Signature,
		Account:   &types.Record{Schema: tables.Account, Values: s.Account},
	}
	err = bank.Account.Validate()
	if err != nil {
		return "", nil, nil, err
	}
	for slot, values := range s.Units {
		if slot < 0 || slot >= types.SLOTS {
			return "", nil, nil, fmt.Errorf("stash: %w: %v", fault.ErrInvalidSlot, slot+1)
		}
		bank.Units[slot] = &types.Record{Schema: tables.Unit, Values: values}
		err = bank.Units[slot].Validate()
		if err != nil {
			return "", nil, nil, err
		}
	}

	return s.Filename, s.Fingerprint, bank, nil
}

// unchanged reports whether a file still has the content it had when loaded
func unchanged(filename string, loaded []byte) (bool, error) {
	current, err := file_fingerprint(filename)
	if err != nil {
		return false, err
	}
	return bytes.Equal(current, loaded), nil
}
