// Package signature produces the authenticity stamp at the end of a bank.
//
// The game hashes a preamble naming the map author, the player and the
// bank, followed by every section and key in name order.  Entry order in
// the file therefore never matters, but every value does.
package signature

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Key is one entry of a section.  Banks only ever hold string values.
type Key struct {
	Name  string
	Value string
}

type Section struct {
	Name string
	Keys []Key
}

// Preamble identifies the bank being signed.
type Preamble struct {
	Region string // handle prefix, e.g. "1-S2-1-" for North America
	Author uint64 // handle of the map author
	Bank   string // bank file name without extension
}

// Runling Run as published on the North American server
var Default = Preamble{
	Region: "1-S2-1-",
	Author: 417073,
	Bank:   "RunlingRun004",
}

// Compute returns the signature for the given player handle and sections, as uppercase hex.
// The sections are not modified.
func (p Preamble) Compute(handle uint64, sections []Section) string {
	h := sha1.New()

	write := func(s string) {
		h.Write([]byte(s))
	}

	write(p.Region)
	write(strconv.FormatUint(p.Author, 10))
	write(p.Region)
	write(strconv.FormatUint(handle, 10))
	write(p.Bank)

	sorted := append([]Section{}, sections...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, section := range sorted {
		write(section.Name)

		keys := append([]Key{}, section.Keys...)
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
		for _, key := range keys {
			write(key.Name)
			write("Value")
			write("string")
			write(key.Value)
		}
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// Compute signs with the default preamble
func Compute(handle uint64, sections []Section) string {
	return Default.Compute(handle, sections)
}
