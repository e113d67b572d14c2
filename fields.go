package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"bankedit/fault"
	"bankedit/tables"
	"bankedit/types"
)

const (
	WHAT_HANDLE  = "handle"
	WHAT_ACCOUNT = "account"
	WHAT_UNIT    = "unit"
)

// smash smashes "funny characters" (which includes anything that's remotely tricky to type into a command line) in a string into the '_' character
func smash(in string) string {
	out := ""
	for _, c := range in {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			out += string(c)
		} else {
			out += "_"
		}
	}
	return out
}

// string matching functions, in strictly increasing order of desperation
var fuzzy = []func(input string, candidate string) bool{
	func(i string, c string) bool { return i == c },
	func(i string, c string) bool { return strings.ToUpper(i) == strings.ToUpper(c) },
	func(i string, c string) bool { return smash(strings.ToUpper(i)) == smash(strings.ToUpper(c)) },
	func(i string, c string) bool {
		return strings.HasPrefix(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
	func(i string, c string) bool {
		return strings.Contains(smash(strings.ToUpper(c)), smash(strings.ToUpper(i)))
	},
}

// fuzzy_reverse_lookup looks up "backwards" in a translation map
//
// trans: map to be looked up in
// to: map value
// what: type of thing to be looked up, as a human-readable string
//
// Returns: K: lookup result key, string: lookup result value (not necessarily equal to "to" due to fuzzy matching)
func fuzzy_reverse_lookup[K comparable](trans map[K]string, to string, what string) (K, string, error) {
	var K0 K

	for _, match := range fuzzy {
		matches := []K{}
		names := []string{}
		for k, v := range trans {
			if match(to, v) {
				matches = append(matches, k)
				names = append(names, v)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			sort.Strings(names)
			return K0, "", fmt.Errorf("%w: %q could be anything from {%v}", fault.ErrAmbiguousName, to, strings.Join(names, ", "))
		}

		return matches[0], names[0], nil
	}

	return K0, "", fmt.Errorf("%w: %q could not be matched to a %v", fault.ErrNoSuchField, to, what)
}

// address is a parsed "what" argument: handle, account.FIELD or unitN.FIELD
type address struct {
	handle bool
	slot   int // -1 for the account
	field  int
	name   string // canonical form, for messages
}

func record_names() map[int]string {
	names := map[int]string{-1: WHAT_ACCOUNT}
	for slot := range types.SLOTS {
		names[slot] = fmt.Sprintf("%v%d", WHAT_UNIT, slot+1)
	}
	return names
}

func parse_address(what string) (*address, error) {
	if smash(strings.ToLower(what)) == WHAT_HANDLE {
		return &address{handle: true, name: WHAT_HANDLE}, nil
	}

	record, field, ok := strings.Cut(what, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %q should look like account.FIELD, unitN.FIELD or handle", fault.ErrNoSuchField, what)
	}

	slot, record_name, err := fuzzy_reverse_lookup(record_names(), record, "record")
	if err != nil {
		return nil, err
	}

	schema := tables.Unit
	if slot < 0 {
		schema = tables.Account
	}
	fields := map[int]string{}
	for i, name := range schema.Names() {
		fields[i] = name
	}
	i, field_name, err := fuzzy_reverse_lookup(fields, field, schema.Name+" field")
	if err != nil {
		return nil, err
	}

	return &address{slot: slot, field: i, name: record_name + "." + field_name}, nil
}

// record finds the record an address refers to
func (a *address) record(bank *types.Bank) (*types.Record, error) {
	if a.slot < 0 {
		return bank.Account, nil
	}
	u := bank.Units[a.slot]
	if u == nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrSlotEmpty, a.slot+1)
	}
	return u, nil
}

// get gets something and returns it as a human-readable string
func get(what string, bank *types.Bank) (string, error) {
	a, err := parse_address(what)
	if err != nil {
		return "", err
	}
	if a.handle {
		return fmt.Sprintf("%v: %v", a.name, bank.Handle), nil
	}
	r, err := a.record(bank)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v: %v", a.name, r.Values[a.field]), nil
}

// set sets something.  Returns the canonical name of what was set.
func set(what string, to string, bank *types.Bank) (string, error) {
	a, err := parse_address(what)
	if err != nil {
		return "", err
	}

	value, err := strconv.ParseUint(strings.TrimSpace(to), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %v cannot be set to %q: %w", fault.ErrInvalidNumber, a.name, to, err)
	}

	if a.handle {
		bank.Handle = value
		return a.name, nil
	}
	r, err := a.record(bank)
	if err != nil {
		return "", err
	}
	err = r.Set(r.Schema.Fields[a.field].Name, value)
	if err != nil {
		return "", err
	}
	return a.name, nil
}

func parse_slot(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(arg), WHAT_UNIT))
	if err != nil || n < 1 || n > types.SLOTS {
		return 0, fmt.Errorf("%w: %q", fault.ErrInvalidSlot, arg)
	}
	return n - 1, nil
}

// add_unit puts a fresh unit of the given class into an empty slot
func add_unit(bank *types.Bank, slot int, class uint64) error {
	if bank.Units[slot] != nil {
		return fmt.Errorf("%w: %v", fault.ErrSlotOccupied, slot+1)
	}
	u := tables.Unit.New()
	err := u.Set("class", class)
	if err != nil {
		return err
	}
	bank.Units[slot] = u
	return nil
}

// remove_unit empties a slot.  With a per-unit handle the last unit
// cannot go: the handle would no longer be recoverable from the file.
func remove_unit(bank *types.Bank, slot int, handle_per_unit bool) error {
	if bank.Units[slot] == nil {
		return fmt.Errorf("%w: %v", fault.ErrSlotEmpty, slot+1)
	}
	if handle_per_unit && len(bank.Occupied()) == 1 {
		return fmt.Errorf("%w: slot %v holds the last unit", fault.ErrHandleUndetermined, slot+1)
	}
	bank.Units[slot] = nil
	return nil
}
