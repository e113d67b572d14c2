package writers

// Functions for writing bank files
// The layout (preamble line, 4-space indent, self-closing values) is what the game itself writes.

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"bankedit/checksum"
	"bankedit/readers"
	"bankedit/signature"
	"bankedit/tables"
	"bankedit/types"
)

const PREAMBLE = `<?xml version="1.0" encoding="utf-8"?>`

const BANK_VERSION = 1

// Sections regenerates every key of a bank from its records: unit slots,
// unit/info, account/camera and account/info.
func Sections(b *types.Bank, engine *checksum.Engine) ([]signature.Section, error) {
	unit := signature.Section{Name: readers.SECTION_UNIT}
	slots := tables.Slots.New()
	for slot, u := range b.Units {
		if u == nil {
			continue
		}
		blob, err := tables.EncodeUnit(u)
		if err != nil {
			return nil, fmt.Errorf("slot %v: %w", slot+1, err)
		}
		unit.Keys = append(unit.Keys, signature.Key{Name: types.Slot_name(slot), Value: blob})
		slots.Values[slot] = 1
	}
	info, err := slots.Encode()
	if err != nil {
		return nil, err
	}
	unit.Keys = append(unit.Keys, signature.Key{Name: readers.KEY_INFO, Value: info})

	camera, err := engine.Bank_camera(b)
	if err != nil {
		return nil, err
	}
	info, err = tables.EncodeAccount(b.Account)
	if err != nil {
		return nil, err
	}
	account := signature.Section{Name: readers.SECTION_ACCOUNT, Keys: []signature.Key{
		{Name: readers.KEY_CAMERA, Value: camera},
		{Name: readers.KEY_INFO, Value: info},
	}}

	return []signature.Section{unit, account}, nil
}

// Document encodes a bank and signs it
func Document(b *types.Bank, engine *checksum.Engine, preamble signature.Preamble) (*readers.Document, error) {
	sections, err := Sections(b, engine)
	if err != nil {
		return nil, err
	}
	return &readers.Document{
		Version:   BANK_VERSION,
		Sections:  sections,
		Signature: preamble.Compute(b.Handle, sections),
	}, nil
}

func Write_bank(out io.Writer, b *types.Bank, engine *checksum.Engine, preamble signature.Preamble) error {
	doc, err := Document(b, engine, preamble)
	if err != nil {
		return err
	}
	return Write_document(out, doc)
}

// Write_document writes a document as-is.  Nothing is re-signed.
func Write_document(out io.Writer, doc *readers.Document) error {
	w := bufio.NewWriter(out)
	indent := func(n int) string {
		return string(bytes.Repeat([]byte(" "), 4*n))
	}

	fmt.Fprintln(w, PREAMBLE)
	fmt.Fprintf(w, "<Bank version=\"%d\">\n", doc.Version)
	for _, section := range doc.Sections {
		fmt.Fprintf(w, "%s<Section name=\"%s\">\n", indent(1), attr(section.Name))
		for _, key := range section.Keys {
			fmt.Fprintf(w, "%s<Key name=\"%s\">\n", indent(2), attr(key.Name))
			fmt.Fprintf(w, "%s<Value string=\"%s\"/>\n", indent(3), attr(key.Value))
			fmt.Fprintf(w, "%s</Key>\n", indent(2))
		}
		fmt.Fprintf(w, "%s</Section>\n", indent(1))
	}
	fmt.Fprintf(w, "%s<Signature value=\"%s\"/>\n", indent(1), attr(doc.Signature))
	fmt.Fprintln(w, "</Bank>")

	return w.Flush()
}

// attr escapes an attribute value.  Blobs never need it, but key names might.
func attr(s string) string {
	buf := bytes.Buffer{}
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
