package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"bankedit/fault"
	"bankedit/readers"
	"bankedit/types"
	"bankedit/watcher"
	"bankedit/writers"
)

func runLoad(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() < 1 {
		return errors.New("load what?  Filename expected")
	}

	filename := filepath.Join(m.settings.Dir, c.Args().Get(0))
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	bank, err := readers.Read_bank(bytes.NewReader(data), m.engine)
	if err != nil {
		return fmt.Errorf("%q: %w", filename, err)
	}

	m.log.Infof("loaded: %q  handle: %d", filename, bank.Handle)
	fmt.Fprintf(m.w, "loaded %v (handle %v, units in slots %v)\n", filename, bank.Handle, occupied_slots(bank))
	return stash(m.stash, filename, fingerprint(data), bank)
}

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() < 1 {
		return errors.New("get what?  handle, account.FIELD or unitN.FIELD")
	}

	_, _, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}
	str, err := get(c.Args().Get(0), bank)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.w, str)
	return nil
}

func runSet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() < 2 {
		return errors.New("set what to what?  e.g. set account.total_score 1000")
	}

	filename, loaded, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}
	what, err := set(c.Args().Get(0), c.Args().Get(1), bank)
	if err != nil {
		return err
	}

	m.log.Infof("set: %s = %s", what, c.Args().Get(1))
	fmt.Fprintln(m.w, what, "set to", c.Args().Get(1))
	return stash(m.stash, filename, loaded, bank)
}

func runAddUnit(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	slot, err := parse_slot(c.Args().Get(0))
	if err != nil {
		return err
	}
	filename, loaded, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}
	err = add_unit(bank, slot, c.Uint64("class"))
	if err != nil {
		return err
	}

	m.log.Infof("unit added: slot %d", slot+1)
	fmt.Fprintf(m.w, "unit%d created\n", slot+1)
	return stash(m.stash, filename, loaded, bank)
}

func runRemoveUnit(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	slot, err := parse_slot(c.Args().Get(0))
	if err != nil {
		return err
	}
	filename, loaded, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}
	err = remove_unit(bank, slot, m.engine.Handle_per_unit)
	if err != nil {
		return err
	}

	m.log.Infof("unit removed: slot %d", slot+1)
	fmt.Fprintf(m.w, "unit%d removed\n", slot+1)
	return stash(m.stash, filename, loaded, bank)
}

func runDump(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	filename, _, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}
	doc, err := writers.Document(bank, m.engine, m.settings.Preamble)
	if err != nil {
		return err
	}
	s := summarise(filename, bank, m.engine, doc.Signature)

	if c.Bool("yaml") {
		return dump_yaml(m.w, s, bank)
	}
	dump_text(m.w, s, bank)
	return nil
}

func runSave(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	filename, loaded, bank, err := retrieve(m.stash)
	if err != nil {
		return err
	}

	// Encode before touching anything on disk
	doc, err := writers.Document(bank, m.engine, m.settings.Preamble)
	if err != nil {
		return err
	}

	same, err := unchanged(filename, loaded)
	if err != nil {
		return err
	}
	if !same {
		if !c.Bool("force") {
			return fmt.Errorf("%w: %q", fault.ErrBankChanged, filename)
		}
		m.log.Warnf("overwriting changed bank: %q", filename)
	}

	// Back up the old file
	// Since this tool is capable of completely trashing a bank, that's probably a good idea
	newname := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".old"
	err = os.Rename(filename, newname)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.w, filename, "renamed to", newname)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	writer := bufio.NewWriter(f)
	err = writers.Write_document(writer, doc)
	if err != nil {
		return err
	}
	err = writer.Flush()
	if err != nil {
		return err
	}
	err = f.Sync()
	if err != nil {
		return err
	}
	m.log.Infof("saved: %q  signature: %s", filename, doc.Signature)
	fmt.Fprintln(m.w, "New file written to", filename)

	err = os.Remove(m.stash)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.w, "Temporary data cleaned up")
	return nil
}

func runSign(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if c.NArg() < 1 {
		return errors.New("sign what?  Filename expected")
	}
	filename := filepath.Join(m.settings.Dir, c.Args().Get(0))

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := readers.Read_document(f)
	if err != nil {
		return err
	}
	bank, err := doc.Read_bank(m.engine)
	if err != nil {
		return err
	}

	expected := m.settings.Preamble.Compute(bank.Handle, doc.Sections)
	fmt.Fprintln(m.w, expected)
	if expected != doc.Signature {
		fmt.Fprintln(m.w, "file carries", doc.Signature)
	}
	return nil
}

func runWatch(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	w := watcher.New(m.settings.Dir, m.engine, m.settings.Settle, logger.New("watcher"))
	reports := make(chan *watcher.Report, 10)
	err := w.Start(reports)
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(m.w, "watching", m.settings.Dir, "- interrupt to stop")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case r := <-reports:
			fmt.Fprintf(m.w, "%v: handle %v, account checksum %v, units in slots %v\n", r.Filename, r.Handle, r.Account_checksum, r.Slots)
			for _, change := range r.Changes {
				fmt.Fprintln(m.w, "   ", change)
			}
		case <-signals:
			return nil
		}
	}
}

func occupied_slots(bank *types.Bank) []int {
	out := []int{}
	for slot, u := range bank.Units {
		if u != nil {
			out = append(out, slot+1)
		}
	}
	return out
}
