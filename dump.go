package main

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"bankedit/checksum"
	"bankedit/types"
)

// summary is everything dump shows besides the records themselves
type summary struct {
	filename          string
	signature_current bool
	account_checksum  uint64
	units_checksum    uint64
}

func summarise(filename string, bank *types.Bank, engine *checksum.Engine, expected_signature string) summary {
	return summary{
		filename:          filename,
		signature_current: bank.Signature == expected_signature,
		account_checksum:  checksum.Of(bank.Account),
		units_checksum:    engine.Units(bank.Occupied(), bank.Handle),
	}
}

func dump_text(w io.Writer, s summary, bank *types.Bank) {
	fmt.Fprintf(w, "file: %v\n", s.filename)
	fmt.Fprintf(w, "handle: %v\n", bank.Handle)
	if s.signature_current {
		fmt.Fprintf(w, "signature: %v\n", bank.Signature)
	} else {
		fmt.Fprintf(w, "signature: %v (stale, will be replaced on save)\n", bank.Signature)
	}
	fmt.Fprintf(w, "checksums: account %v, units %v\n", s.account_checksum, s.units_checksum)

	fmt.Fprintln(w, "account:")
	dump_record(w, bank.Account)
	for slot, u := range bank.Units {
		if u == nil {
			fmt.Fprintf(w, "unit%d: empty\n", slot+1)
			continue
		}
		fmt.Fprintf(w, "unit%d: (checksum %v)\n", slot+1, checksum.Of(u))
		dump_record(w, u)
	}
}

func dump_record(w io.Writer, r *types.Record) {
	for i, f := range r.Schema.Fields {
		fmt.Fprintf(w, "   %v: %v\n", f.Name, r.Values[i])
	}
}

// yaml mappings built by hand to keep fields in schema order
func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func number(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: pairs}
}

func record_node(r *types.Record) *yaml.Node {
	out := mapping()
	for i, f := range r.Schema.Fields {
		out.Content = append(out.Content, scalar(f.Name), number(r.Values[i]))
	}
	return out
}

func dump_yaml(w io.Writer, s summary, bank *types.Bank) error {
	units := mapping()
	for slot, u := range bank.Units {
		if u != nil {
			units.Content = append(units.Content, scalar(fmt.Sprintf("unit%d", slot+1)), record_node(u))
		}
	}

	doc := mapping(
		scalar("file"), scalar(s.filename),
		scalar("handle"), number(bank.Handle),
		scalar("signature"), mapping(
			scalar("value"), scalar(bank.Signature),
			scalar("current"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(s.signature_current)},
		),
		scalar("checksums"), mapping(
			scalar("account"), number(s.account_checksum),
			scalar("units"), number(s.units_checksum),
		),
		scalar("account"), record_node(bank.Account),
		scalar("units"), units,
	)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	err := encoder.Encode(doc)
	if err != nil {
		return err
	}
	return encoder.Close()
}
