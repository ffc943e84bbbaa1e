package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-binfmt/wasm"
)

func writeModule(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.wasm")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sample() []byte {
	return wasm.NewBuilder().
		Types(wasm.Signature{Params: []wasm.ValueType{wasm.ValI32}, Results: []wasm.ValueType{wasm.ValI32}}).
		Imports(wasm.ImportEntry{Module: "env", Name: "f", Kind: wasm.KindFunc}).
		Functions(0).
		Exports(wasm.ExportEntry{Name: "run", Kind: wasm.KindFunc, Index: 1}).
		Code(wasm.Expr(nil).LocalGet(0).End().Body()).
		Custom("producers", []byte{0}).
		Bytes()
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{stdout: &out, stderr: &errOut}
	cmd := a.root()
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestInspect(t *testing.T) {
	path := writeModule(t, sample())
	out, _, err := run(t, "inspect", path)
	require.NoError(t, err)

	for _, want := range []string{
		"version 1",
		"Type",
		"Import",
		"Code",
		`Custom "producers"`,
		"0: (i32) -> (i32)",
		"env.f (func type 0)",
		"run (func 1)",
	} {
		require.Contains(t, out, want)
	}
	require.Less(t, strings.Index(out, "Type"), strings.Index(out, `Custom "producers"`))
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", writeModule(t, sample()))
	require.NoError(t, err)
	require.Contains(t, out, "[ok]")

	bad := append(wasm.NewBuilder().Bytes(), 12, 0)
	_, errOut, err := run(t, "validate", writeModule(t, bad))
	require.True(t, errors.Is(err, errFailed))
	require.Contains(t, errOut, "[error]")
	require.Contains(t, errOut, "illegal_section_id")
	require.Contains(t, errOut, "offending byte 0x0c")
	require.Contains(t, errOut, "[0c]")
}

func TestValidate_MultiValueFlag(t *testing.T) {
	mod := wasm.NewBuilder().
		Types(wasm.Signature{Results: []wasm.ValueType{wasm.ValI32, wasm.ValI32}}).
		Bytes()
	path := writeModule(t, mod)

	_, _, err := run(t, "validate", path)
	require.Error(t, err)
	_, _, err = run(t, "--multi-value", "validate", path)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", writeModule(t, wasm.NewBuilder().Version(2).Bytes()))
	require.NoError(t, err)
	require.Equal(t, "2\n", out)

	_, errOut, err := run(t, "version", writeModule(t, []byte("not wasm")))
	require.ErrorIs(t, err, errFailed)
	require.Contains(t, errOut, "not a WebAssembly module")
}

func TestConfigErrors(t *testing.T) {
	path := writeModule(t, sample())
	_, _, err := run(t, "--color", "rainbow", "validate", path)
	require.ErrorContains(t, err, "output.color")

	cfg := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("limits:\n  max_types: 0\n  max_codes: 0\nbogus: 1\n"), 0o600))
	_, _, err = run(t, "--config", cfg, "validate", path)
	require.ErrorContains(t, err, "bogus")
}

func TestBrowser(t *testing.T) {
	data := sample()
	a := &app{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	require.NoError(t, a.setup(a.root().Flags()))
	mod, _, release, err := a.decode(writeModule(t, data))
	require.NoError(t, err)
	defer release()

	sum := summarize(mod, 1)
	b := newBrowser(newStyles(&bytes.Buffer{}, false), "m.wasm", data, sum)
	b.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	require.Contains(t, b.View(), "> Type")

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, b.selected)
	require.Contains(t, b.View(), "> Import")

	b.Update(tea.KeyMsg{Type: tea.KeyUp})
	b.Update(tea.KeyMsg{Type: tea.KeyUp})
	require.Zero(t, b.selected)

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHexDump(t *testing.T) {
	got := hexDump([]byte("abc\x00"), 0x10)
	require.Equal(t, "00000010: 61 62 63 00"+strings.Repeat("   ", 12)+"  abc.\n", got)
}
