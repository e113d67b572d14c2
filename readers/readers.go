package readers

// Functions for reading bank files
//
// A bank is an XML document:
//
//	<Bank version="1">
//	    <Section name="unit">
//	        <Key name="01">
//	            <Value string="..."/>
//	        </Key>
//	        ...
//	    </Section>
//	    <Section name="account"> ... </Section>
//	    <Signature value="..."/>
//	</Bank>
//
// Reading happens in two steps: the XML into a Document (sections of
// string keys, exactly as in the file), then the Document into a Bank.

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"bankedit/checksum"
	"bankedit/fault"
	"bankedit/signature"
	"bankedit/tables"
	"bankedit/types"
)

const (
	SECTION_UNIT    = "unit"
	SECTION_ACCOUNT = "account"
	KEY_INFO        = "info"
	KEY_CAMERA      = "camera"
)

// Document is a bank file with nothing decoded
type Document struct {
	Version   int
	Sections  []signature.Section
	Signature string
}

type xml_value struct {
	String string `xml:"string,attr"`
}

type xml_key struct {
	Name  string    `xml:"name,attr"`
	Value xml_value `xml:"Value"`
}

type xml_section struct {
	Name string    `xml:"name,attr"`
	Keys []xml_key `xml:"Key"`
}

type xml_signature struct {
	Value string `xml:"value,attr"`
}

type xml_bank struct {
	XMLName   xml.Name      `xml:"Bank"`
	Version   int           `xml:"version,attr"`
	Sections  []xml_section `xml:"Section"`
	Signature xml_signature `xml:"Signature"`
}

func Read_document(r io.Reader) (*Document, error) {
	raw := xml_bank{}
	err := xml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("not a bank file: %w", err)
	}

	out := Document{Version: raw.Version, Signature: raw.Signature.Value}
	for _, s := range raw.Sections {
		section := signature.Section{Name: s.Name}
		for _, k := range s.Keys {
			section.Keys = append(section.Keys, signature.Key{Name: k.Name, Value: k.Value.String})
		}
		out.Sections = append(out.Sections, section)
	}
	return &out, nil
}

// Section finds a section by name
func (d *Document) Section(name string) (*signature.Section, error) {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %v", fault.ErrMissingSection, name)
}

// Key finds a key's value in a section. ok is false if there is no such key.
func Key(section *signature.Section, name string) (string, bool) {
	for _, k := range section.Keys {
		if k.Name == name {
			return k.Value, true
		}
	}
	return "", false
}

func must_key(section *signature.Section, name string) (string, error) {
	v, ok := Key(section, name)
	if !ok {
		return "", fmt.Errorf("%w: %v/%v", fault.ErrMissingKey, section.Name, name)
	}
	return v, nil
}

// Read_bank decodes every record in a document and recovers the handle.
func (d *Document) Read_bank(engine *checksum.Engine) (*types.Bank, error) {
	unit_section, err := d.Section(SECTION_UNIT)
	if err != nil {
		return nil, err
	}
	account_section, err := d.Section(SECTION_ACCOUNT)
	if err != nil {
		return nil, err
	}

	out := types.Bank{Signature: d.Signature}

	info, err := must_key(account_section, KEY_INFO)
	if err != nil {
		return nil, err
	}
	out.Account, err = tables.DecodeAccount(info)
	if err != nil {
		return nil, err
	}

	for slot := range types.SLOTS {
		blob, ok := Key(unit_section, types.Slot_name(slot))
		if !ok {
			continue
		}
		out.Units[slot], err = tables.DecodeUnit(blob)
		if err != nil {
			return nil, fmt.Errorf("slot %v: %w", slot+1, err)
		}
	}

	err = check_slots(unit_section, &out)
	if err != nil {
		return nil, err
	}

	camera, err := must_key(account_section, KEY_CAMERA)
	if err != nil {
		return nil, err
	}
	out.Handle, err = engine.Derive_handle(camera, out.Occupied())
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// check_slots compares unit/info with the unit keys actually present.
// A bank without unit/info is accepted; it is regenerated on save anyway.
func check_slots(unit_section *signature.Section, b *types.Bank) error {
	blob, ok := Key(unit_section, KEY_INFO)
	if !ok {
		return nil
	}
	slots, err := tables.Slots.Decode(blob)
	if err != nil {
		return fmt.Errorf("unit/info: %w", err)
	}
	for slot := range types.SLOTS {
		flagged := slots.Values[slot] != 0
		present := b.Units[slot] != nil
		if flagged != present {
			return fmt.Errorf("%w: unit/info says slot %v occupied=%v, but the key is present=%v", fault.ErrSchemaMismatch, slot+1, flagged, present)
		}
	}
	return nil
}

// Read_bank reads and decodes a whole bank
func Read_bank(r io.Reader, engine *checksum.Engine) (*types.Bank, error) {
	doc, err := Read_document(r)
	if err != nil {
		return nil, err
	}
	return doc.Read_bank(engine)
}

func Read_bank_file(filename string, engine *checksum.Engine) (*types.Bank, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read_bank(f, engine)
}
