package emit

import (
	"fmt"
	"strings"

	"github.com/opforge/opforge/internal/isa"
)

// terminatorLine marks the end of the opcode table in riscv-opc.c.
const terminatorLine = "/* Terminate the list.  */"

// Operand strings for the assembler's opcode table: rd,rs1,rs2 for R-type,
// rd,rs1,imm12 for I-type.
func operands(form isa.Form) string {
	if form == isa.RegReg {
		return "d,s,t"
	}
	return "d,s,j"
}

// OpcodeEntries renders one opcode table row per instruction.
func OpcodeEntries(insts []isa.EncodedInstruction) []string {
	entries := make([]string, len(insts))
	for i, inst := range insts {
		symbol := symbolName(inst.Name)
		entries[i] = fmt.Sprintf(`{"%s",  "I",  "%s", MATCH_%s, MASK_%s, match_opcode, 0 },`,
			inst.Name, operands(inst.Form), symbol, symbol)
	}
	return entries
}

// PatchSource inserts opcode table rows into the riscv-opc.c content,
// right before the terminator comment. Rows already present are skipped,
// so patching is idempotent. When the terminator is missing the rows go
// near the end of the file, matching the upstream generator's fallback.
func PatchSource(content string, entries []string) string {
	lines := strings.Split(content, "\n")

	insertAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == terminatorLine {
			insertAt = i
			break
		}
	}
	if insertAt < 0 {
		insertAt = len(lines) - 1
		if insertAt < 0 {
			insertAt = 0
		}
	}

	var missing []string
	for _, entry := range entries {
		present := false
		for _, line := range lines {
			if strings.TrimSpace(line) == strings.TrimSpace(entry) {
				present = true
				break
			}
		}
		if !present {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return content
	}

	patched := make([]string, 0, len(lines)+len(missing))
	patched = append(patched, lines[:insertAt]...)
	patched = append(patched, missing...)
	patched = append(patched, lines[insertAt:]...)
	return strings.Join(patched, "\n")
}
