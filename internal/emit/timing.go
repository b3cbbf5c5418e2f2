package emit

import (
	"strings"
	"text/template"

	"github.com/opforge/opforge/internal/isa"
)

var timingTemplate = template.Must(template.New("timing").Funcs(template.FuncMap{
	"title": titleCase,
}).Parse(`# === AUTO GENERATED FILE ===

from m5.objects import *
{{range .}}

class MinorFUTiming{{title .Name}}(MinorFUTiming):
    description = 'Custom{{title .Name}}'
    srcRegsRelativeLats = [2]
    extraCommitLat = {{.ExtraLat}}
{{end}}

custom_timings = [
{{range .}}    MinorFUTiming{{title .Name}}(),
{{end}}]
`))

// timingEntry carries one instruction's latency for the template.
// extraCommitLat is relative to a single-cycle baseline.
type timingEntry struct {
	Name     string
	ExtraLat int
}

// TimingTable renders the simulator timing overlay: one functional unit
// timing class per instruction, parameterized by its cycle count.
func TimingTable(insts []isa.EncodedInstruction) (string, error) {
	entries := make([]timingEntry, len(insts))
	for i, inst := range insts {
		extra := inst.Cycles - 1
		if extra < 0 {
			extra = 0
		}
		entries[i] = timingEntry{Name: inst.Name, ExtraLat: extra}
	}

	var b strings.Builder
	if err := timingTemplate.Execute(&b, entries); err != nil {
		return "", err
	}
	return b.String(), nil
}

// titleCase upper-cases the first rune only; instruction names are ASCII
// identifiers.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
