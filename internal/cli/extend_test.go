package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opcSourceFixture = `/* riscv-opc.c */
const struct riscv_opcode riscv_opcodes[] =
{
{"add",  "I",  "d,s,t", MATCH_ADD, MASK_ADD, match_opcode, 0 },
/* Terminate the list.  */
{0, 0, 0, 0, 0, 0, 0}
};
`

// scaffolds a fake toolchain checkout with the opcode table in place.
func scaffoldToolchain(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	opcSource := filepath.Join(root, relOpcSource)
	require.NoError(t, os.MkdirAll(filepath.Dir(opcSource), 0o755))
	require.NoError(t, os.WriteFile(opcSource, []byte(opcSourceFixture), 0o644))
	return root
}

func runExtendCommand(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewExtendCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestExtendPatchesToolchainAndGem5(t *testing.T) {
	toolchain := scaffoldToolchain(t)
	gem5 := t.TempDir()
	journal := filepath.Join(t.TempDir(), "patches.db")

	buf, err := runExtendCommand(t,
		filepath.Join("testdata", "models"),
		"--toolchain", toolchain,
		"--gem5", gem5,
		"--registers", filepath.Join("testdata", "registers.yaml"),
		"--journal", journal,
	)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Extended 5 file(s) for 3 instruction(s)")

	header, err := os.ReadFile(filepath.Join(toolchain, relOpcHeader))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#define MATCH_MACS 0xb")
	assert.Contains(t, string(header), "DECLARE_INSN(addq,")

	source, err := os.ReadFile(filepath.Join(toolchain, relOpcSource))
	require.NoError(t, err)
	assert.Contains(t, string(source), `{"macs",  "I",  "d,s,t", MATCH_MACS, MASK_MACS, match_opcode, 0 },`)
	entryIdx := strings.Index(string(source), `{"macs",`)
	termIdx := strings.Index(string(source), "/* Terminate the list.  */")
	assert.Less(t, entryIdx, termIdx, "entries must precede terminator")

	intrinsics, err := os.ReadFile(filepath.Join(toolchain, relIntrinsics))
	require.NoError(t, err)
	assert.Contains(t, string(intrinsics), "#define CUST_STATUS 0x7c0")
	assert.Contains(t, string(intrinsics), "static inline void MACS(")

	decoder, err := os.ReadFile(filepath.Join(gem5, relDecoder))
	require.NoError(t, err)
	assert.Contains(t, string(decoder), "decode FUNCT3")

	timing, err := os.ReadFile(filepath.Join(gem5, relTiming))
	require.NoError(t, err)
	assert.Contains(t, string(timing), "class MinorFUTimingMacs(MinorFUTiming):")
}

func TestExtendRequiresTargetTree(t *testing.T) {
	_, err := runExtendCommand(t, filepath.Join("testdata", "models"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--toolchain")
}

func TestExtendConflictAbortsBeforeWriting(t *testing.T) {
	toolchain := scaffoldToolchain(t)
	journal := filepath.Join(t.TempDir(), "patches.db")

	_, err := runExtendCommand(t,
		filepath.Join("testdata", "conflict"),
		"--toolchain", toolchain,
		"--journal", journal,
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Nothing may be written when the pipeline rejects the batch.
	_, statErr := os.Stat(filepath.Join(toolchain, relOpcHeader))
	assert.True(t, os.IsNotExist(statErr))
	source, readErr := os.ReadFile(filepath.Join(toolchain, relOpcSource))
	require.NoError(t, readErr)
	assert.Equal(t, opcSourceFixture, string(source))
}

func TestExtendThenRestoreRoundTrip(t *testing.T) {
	toolchain := scaffoldToolchain(t)
	gem5 := t.TempDir()
	journal := filepath.Join(t.TempDir(), "patches.db")

	_, err := runExtendCommand(t,
		filepath.Join("testdata", "models"),
		"--toolchain", toolchain,
		"--gem5", gem5,
		"--journal", journal,
	)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	restore := NewRestoreCommand(rootOpts)
	restore.SetOut(buf)
	restore.SetArgs([]string{"--journal", journal})
	require.NoError(t, restore.Execute())
	assert.Contains(t, buf.String(), "✓ Restored 5 file(s)")

	// The patched table is back to its pristine content.
	source, err := os.ReadFile(filepath.Join(toolchain, relOpcSource))
	require.NoError(t, err)
	assert.Equal(t, opcSourceFixture, string(source))

	// Files created by extend are gone again.
	for _, created := range []string{
		filepath.Join(toolchain, relOpcHeader),
		filepath.Join(toolchain, relIntrinsics),
		filepath.Join(gem5, relDecoder),
		filepath.Join(gem5, relTiming),
	} {
		_, statErr := os.Stat(created)
		assert.True(t, os.IsNotExist(statErr), "still present: %s", created)
	}
}

func TestExtendIsIdempotent(t *testing.T) {
	toolchain := scaffoldToolchain(t)
	journal := filepath.Join(t.TempDir(), "patches.db")
	args := []string{
		filepath.Join("testdata", "models"),
		"--toolchain", toolchain,
		"--journal", journal,
	}

	_, err := runExtendCommand(t, args...)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(toolchain, relOpcSource))
	require.NoError(t, err)

	_, err = runExtendCommand(t, args...)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(toolchain, relOpcSource))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, strings.Count(string(second), `{"macs",`))
}

func TestRestoreMissingJournal(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRestoreCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", filepath.Join(t.TempDir(), "nope.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
}

func TestRestoreUntrackedTarget(t *testing.T) {
	toolchain := scaffoldToolchain(t)
	journal := filepath.Join(t.TempDir(), "patches.db")

	_, err := runExtendCommand(t,
		filepath.Join("testdata", "models"),
		"--toolchain", toolchain,
		"--journal", journal,
	)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRestoreCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", journal, "/not/journaled"})

	err = cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
