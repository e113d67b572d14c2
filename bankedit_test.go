package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankedit/checksum"
	"bankedit/config"
	"bankedit/fault"
	"bankedit/readers"
	"bankedit/signature"
	"bankedit/types"
)

const real_bank_file = "writers/testdata/RunlingRun004.SC2Bank"
const real_signature = "EDAFA12608F763D30AE958F79EFE6A42F33FA821"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "bankedit-log")
	if err != nil {
		panic(err)
	}
	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	g_logging = true

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

// session is a bank directory holding a copy of the real bank, plus a stash file
type session struct {
	t     *testing.T
	dir   string
	stash string
}

func new_session(t *testing.T) *session {
	data, err := os.ReadFile(real_bank_file)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RunlingRun004.SC2Bank"), data, 0644))
	return &session{t: t, dir: dir, stash: filepath.Join(dir, "bankedit.tmp")}
}

func (s *session) run(args ...string) (string, error) {
	out := &bytes.Buffer{}
	app := new_app()
	app.Writer = out
	app.ErrWriter = out
	full := append([]string{"bankedit", "--dir", s.dir, "--stash", s.stash, "--config", filepath.Join(s.dir, config.FILENAME)}, args...)
	err := app.Run(full)
	return out.String(), err
}

func (s *session) must(args ...string) string {
	out, err := s.run(args...)
	require.NoError(s.t, err, "bankedit %v", args)
	return out
}

func (s *session) bank_file() string {
	return filepath.Join(s.dir, "RunlingRun004.SC2Bank")
}

func TestSmash(t *testing.T) {
	assert.Equal(t, "total_score", smash("total score"))
	assert.Equal(t, "unit1_speed", smash("unit1-speed"))
	assert.Equal(t, "", smash(""))
}

func TestFuzzyReverseLookup(t *testing.T) {
	names := map[int]string{1: "speed", 2: "speedy", 3: "skill_1_level", 4: "skill_2_level"}

	k, name, err := fuzzy_reverse_lookup(names, "speed", "field")
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	assert.Equal(t, "speed", name)

	k, _, err = fuzzy_reverse_lookup(names, "SKILL 2", "field")
	require.NoError(t, err)
	assert.Equal(t, 4, k)

	k, _, err = fuzzy_reverse_lookup(names, "2_lev", "field")
	require.NoError(t, err)
	assert.Equal(t, 4, k)

	_, _, err = fuzzy_reverse_lookup(names, "skill", "field")
	assert.ErrorIs(t, err, fault.ErrAmbiguousName)
	assert.Contains(t, err.Error(), "skill_1_level, skill_2_level")

	_, _, err = fuzzy_reverse_lookup(names, "armour", "field")
	assert.ErrorIs(t, err, fault.ErrNoSuchField)
}

func TestParseAddress(t *testing.T) {
	items := []struct {
		what string
		name string
	}{
		{"handle", "handle"},
		{"HANDLE", "handle"},
		{"account.total_score", "account.total_score"},
		{"acc.Total Score", "account.total_score"},
		{"unit2.spe", "unit2.speed"},
		{"Unit8.remaining", "unit8.remaining_points"},
		{"account.wasd", "account.wasd_movement"},
	}
	for _, item := range items {
		a, err := parse_address(item.what)
		if assert.NoError(t, err, item.what) {
			assert.Equal(t, item.name, a.name, item.what)
		}
	}

	_, err := parse_address("account.hide")
	assert.ErrorIs(t, err, fault.ErrAmbiguousName)
	_, err = parse_address("unit.speed")
	assert.ErrorIs(t, err, fault.ErrAmbiguousName)
	_, err = parse_address("unit9.speed")
	assert.ErrorIs(t, err, fault.ErrNoSuchField)
	_, err = parse_address("total_score")
	assert.ErrorIs(t, err, fault.ErrNoSuchField)
}

func read_real_bank(t *testing.T) *types.Bank {
	bank, err := readers.Read_bank_file(real_bank_file, checksum.New(true))
	require.NoError(t, err)
	return bank
}

func TestGetSet(t *testing.T) {
	bank := read_real_bank(t)

	str, err := get("account.total_score", bank)
	require.NoError(t, err)
	assert.Equal(t, "account.total_score: 1337", str)

	str, err = get("handle", bank)
	require.NoError(t, err)
	assert.Equal(t, "handle: 3465314", str)

	what, err := set("unit1.exp", "8100000", bank)
	require.NoError(t, err)
	assert.Equal(t, "unit1.experience", what)
	assert.Equal(t, uint64(8100000), bank.Units[0].Must_get("experience"))

	_, err = set("unit1.exp", "8100001", bank)
	assert.ErrorIs(t, err, fault.ErrValueOutOfRange)
	_, err = set("unit1.exp", "-1", bank)
	assert.ErrorIs(t, err, fault.ErrInvalidNumber)
	assert.True(t, fault.IsErrInvalid(err))
	_, err = set("unit1.exp", "lots", bank)
	assert.ErrorIs(t, err, fault.ErrInvalidNumber)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Equal(t, uint64(8100000), bank.Units[0].Must_get("experience"))
	_, err = set("unit3.exp", "1", bank)
	assert.ErrorIs(t, err, fault.ErrSlotEmpty)
	_, err = get("unit3.speed", bank)
	assert.ErrorIs(t, err, fault.ErrSlotEmpty)

	_, err = set("handle", "42", bank)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), bank.Handle)
}

func TestAddRemoveUnit(t *testing.T) {
	bank := read_real_bank(t)

	slot, err := parse_slot("unit5")
	require.NoError(t, err)
	assert.Equal(t, 4, slot)
	_, err = parse_slot("9")
	assert.ErrorIs(t, err, fault.ErrInvalidSlot)
	_, err = parse_slot("0")
	assert.ErrorIs(t, err, fault.ErrInvalidSlot)

	require.NoError(t, add_unit(bank, 4, 2))
	assert.Equal(t, uint64(2), bank.Units[4].Must_get("class"))
	assert.ErrorIs(t, add_unit(bank, 0, 1), fault.ErrSlotOccupied)
	assert.ErrorIs(t, add_unit(bank, 2, 300001), fault.ErrValueOutOfRange)

	require.NoError(t, remove_unit(bank, 4, true))
	require.NoError(t, remove_unit(bank, 0, true))
	assert.ErrorIs(t, remove_unit(bank, 0, true), fault.ErrSlotEmpty)
	assert.ErrorIs(t, remove_unit(bank, 1, true), fault.ErrHandleUndetermined)
	require.NoError(t, remove_unit(bank, 1, false))
	assert.Empty(t, bank.Occupied())
}

func TestStashRoundTrip(t *testing.T) {
	bank := read_real_bank(t)
	bank.Units[1] = nil
	require.NoError(t, bank.Account.Set("odin_kills", 7))

	filename := filepath.Join(t.TempDir(), "bankedit.tmp")
	require.NoError(t, stash(filename, "some.SC2Bank", []byte{1, 2, 3}, bank))

	name, loaded, restored, err := retrieve(filename)
	require.NoError(t, err)
	assert.Equal(t, "some.SC2Bank", name)
	assert.Equal(t, []byte{1, 2, 3}, loaded)
	assert.Equal(t, bank.Handle, restored.Handle)
	assert.Equal(t, bank.Signature, restored.Signature)
	assert.True(t, bank.Account.Equal(restored.Account))
	for slot := range types.SLOTS {
		assert.True(t, bank.Units[slot].Equal(restored.Units[slot]), "slot %d", slot+1)
	}
}

func TestRetrieveNothing(t *testing.T) {
	_, _, _, err := retrieve(filepath.Join(t.TempDir(), "bankedit.tmp"))
	assert.ErrorIs(t, err, fault.ErrNotStashed)
}

func TestSession(t *testing.T) {
	s := new_session(t)

	out := s.must("load", "RunlingRun004.SC2Bank")
	assert.Contains(t, out, "handle 3465314")

	assert.Equal(t, "account.total_score: 1337\n", s.must("get", "account.total_score"))
	s.must("set", "account.total_score", "5000000")
	s.must("set", "unit2.speed", "40")
	assert.Equal(t, "unit2.speed: 40\n", s.must("get", "unit2.speed"))

	out = s.must("dump")
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "   total_score: 5000000\n")
	assert.Contains(t, out, "unit3: empty\n")

	out = s.must("dump", "--yaml")
	assert.Contains(t, out, "handle: 3465314\n")
	assert.Contains(t, out, "\n  total_score: 5000000\n")
	assert.Contains(t, out, "current: false\n")

	out = s.must("save")
	assert.Contains(t, out, "renamed to")

	_, err := os.Stat(filepath.Join(s.dir, "RunlingRun004.old"))
	assert.NoError(t, err, "backup")
	_, err = os.Stat(s.stash)
	assert.True(t, os.IsNotExist(err), "stash removed")

	bank, err := readers.Read_bank_file(s.bank_file(), checksum.New(true))
	require.NoError(t, err)
	assert.Equal(t, uint64(3465314), bank.Handle)
	assert.Equal(t, uint64(5000000), bank.Account.Must_get("total_score"))
	assert.Equal(t, uint64(40), bank.Units[1].Must_get("speed"))

	out = s.must("sign", "RunlingRun004.SC2Bank")
	assert.Equal(t, bank.Signature+"\n", out)
}

func TestSaveRefusesChangedFile(t *testing.T) {
	s := new_session(t)
	s.must("load", "RunlingRun004.SC2Bank")
	s.must("set", "account.normal_wins", "1")

	f, err := os.OpenFile(s.bank_file(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.run("save")
	assert.ErrorIs(t, err, fault.ErrBankChanged)
	_, err = os.Stat(filepath.Join(s.dir, "RunlingRun004.old"))
	assert.True(t, os.IsNotExist(err), "no backup made")

	s.must("save", "--force")
	bank, err := readers.Read_bank_file(s.bank_file(), checksum.New(true))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bank.Account.Must_get("normal_wins"))
}

func TestSessionUnits(t *testing.T) {
	s := new_session(t)
	s.must("load", "RunlingRun004.SC2Bank")
	s.must("add-unit", "--class", "2", "5")
	s.must("remove-unit", "1")
	s.must("remove-unit", "2")
	_, err := s.run("remove-unit", "5")
	assert.ErrorIs(t, err, fault.ErrHandleUndetermined)
	s.must("save")

	bank, err := readers.Read_bank_file(s.bank_file(), checksum.New(true))
	require.NoError(t, err)
	assert.Nil(t, bank.Units[0])
	assert.Nil(t, bank.Units[1])
	assert.Equal(t, []int{5}, occupied_slots(bank))
	assert.Equal(t, uint64(2), bank.Units[4].Must_get("class"))
	assert.Equal(t, uint64(3465314), bank.Handle)
}

func TestSign(t *testing.T) {
	s := new_session(t)
	assert.Equal(t, real_signature+"\n", s.must("sign", "RunlingRun004.SC2Bank"))

	// the bank name is part of what is signed
	preamble := signature.Default
	preamble.Bank = "RunlingRun003"
	ini := "[signature]\nbank = RunlingRun003\n"
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, config.FILENAME), []byte(ini), 0644))

	f, err := os.Open(s.bank_file())
	require.NoError(t, err)
	defer f.Close()
	doc, err := readers.Read_document(f)
	require.NoError(t, err)

	out := s.must("sign", "RunlingRun004.SC2Bank")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, preamble.Compute(3465314, doc.Sections), lines[0])
	assert.NotEqual(t, real_signature, lines[0])
	assert.Equal(t, "file carries "+real_signature, lines[1])
}

func TestNothingLoaded(t *testing.T) {
	s := new_session(t)
	_, err := s.run("get", "handle")
	assert.ErrorIs(t, err, fault.ErrNotStashed)
}
