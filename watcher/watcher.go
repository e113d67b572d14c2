package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"bankedit/checksum"
	"bankedit/readers"
	"bankedit/types"
)

const EXTENSION = ".SC2Bank"

// Change is one field that differs from the previous read of the same file
type Change struct {
	Field string // "account.total_score", "unit3.speed", "unit3" for a slot that appeared or vanished
	From  string
	To    string
}

func (c Change) String() string {
	return fmt.Sprintf("%v: %v -> %v", c.Field, c.From, c.To)
}

// Report describes a bank file after the game wrote it
type Report struct {
	Filename         string
	Handle           uint64
	Account_checksum uint64
	Slots            []int // occupied slots, 1-based
	Changes          []Change
}

type Watcher interface {
	Start(reports chan<- *Report) error
	Stop()
}

func New(dir string, engine *checksum.Engine, settle time.Duration, log *logger.L) Watcher {
	return &dir_watcher{
		dir:    dir,
		engine: engine,
		settle: settle,
		log:    log,
		last:   map[string]*types.Bank{},
	}
}

type dir_watcher struct {
	dir     string
	engine  *checksum.Engine
	settle  time.Duration
	log     *logger.L
	watcher *fsnotify.Watcher
	done    chan struct{}
	running sync.WaitGroup // event loop and every file handler

	sync.Mutex
	last map[string]*types.Bank // previous decode of each file, by base name
}

func (dw *dir_watcher) Start(reports chan<- *Report) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dw.watcher = watcher
	dw.done = make(chan struct{})

	dw.running.Add(1)
	go func() {
		defer dw.running.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, EXTENSION) {
					continue
				}
				dw.log.Debugf("event: %v", event)
				dw.running.Add(1)
				go func(filename string) {
					defer dw.running.Done()
					dw.handle_file(filename, reports)
				}(event.Name)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				dw.log.Errorf("watch error: %v", err)
			}
		}
	}()

	err = dw.watcher.Add(dw.dir)
	if err != nil {
		dw.Stop()
		return err
	}
	dw.log.Infof("watching: %q", dw.dir)
	return nil
}

// Stop returns once every handler has finished; reports not yet delivered are dropped.
func (dw *dir_watcher) Stop() {
	close(dw.done)
	dw.watcher.Close()
	dw.running.Wait()
	dw.log.Info("stopped")
}

func (dw *dir_watcher) handle_file(filename string, out chan<- *Report) {
	// Wait for the game to finish with the file
	select {
	case <-time.After(dw.settle):
	case <-dw.done:
		return
	}

	bank, err := readers.Read_bank_file(filename, dw.engine)
	if err != nil {
		dw.log.Warnf("cannot read bank: %q  error: %s", filename, err)
		return
	}

	report := dw.make_report(filename, bank)
	if report == nil {
		return
	}
	dw.log.Infof("bank: %q  handle: %d  changes: %d", report.Filename, report.Handle, len(report.Changes))
	select {
	case out <- report:
	case <-dw.done:
	}
}

// make_report compares against the previous decode of the same file.
// Returns nil if nothing changed, since the game often writes the same content twice.
func (dw *dir_watcher) make_report(filename string, bank *types.Bank) *Report {
	name := filepath.Base(filename)

	dw.Lock()
	previous, seen := dw.last[name]
	dw.last[name] = bank
	dw.Unlock()

	report := &Report{
		Filename:         name,
		Handle:           bank.Handle,
		Account_checksum: checksum.Of(bank.Account),
	}
	for i, u := range bank.Units {
		if u != nil {
			report.Slots = append(report.Slots, i+1)
		}
	}

	if seen {
		report.Changes = Diff(previous, bank)
		if len(report.Changes) == 0 {
			return nil
		}
	}
	return report
}

// Diff lists every field that differs between two banks
func Diff(from *types.Bank, to *types.Bank) []Change {
	changes := []Change{}
	if from.Handle != to.Handle {
		changes = append(changes, Change{"handle", fmt.Sprint(from.Handle), fmt.Sprint(to.Handle)})
	}
	changes = append(changes, diff_record("account", from.Account, to.Account)...)

	for i := range to.Units {
		prefix := fmt.Sprintf("unit%d", i+1)
		a, b := from.Units[i], to.Units[i]
		switch {
		case a == nil && b == nil:
		case a == nil:
			changes = append(changes, Change{prefix, "empty", b.String()})
		case b == nil:
			changes = append(changes, Change{prefix, a.String(), "empty"})
		default:
			changes = append(changes, diff_record(prefix, a, b)...)
		}
	}
	return changes
}

func diff_record(prefix string, from *types.Record, to *types.Record) []Change {
	changes := []Change{}
	for i, f := range to.Schema.Fields {
		if from.Values[i] != to.Values[i] {
			changes = append(changes, Change{prefix + "." + f.Name, fmt.Sprint(from.Values[i]), fmt.Sprint(to.Values[i])})
		}
	}
	return changes
}
