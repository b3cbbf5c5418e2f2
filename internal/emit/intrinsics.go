package emit

import (
	"strings"
	"text/template"

	"github.com/opforge/opforge/internal/isa"
)

// Register access instructions get no generated wrapper; the READ/WRITE
// helpers below already wrap them.
var reservedIntrinsics = map[string]bool{
	"read_custreg":  true,
	"write_custreg": true,
}

var intrinsicsTemplate = template.Must(template.New("intrinsics").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
}).Parse(`// === AUTO GENERATED FILE ===

#ifndef __RISCVINTR_H__
#define __RISCVINTR_H__

#include <stdint.h>

{{range .Registers}}#define {{.Name}} {{printf "%#x" .Addr}}
{{end}}
static inline uint32_t READ_CUSTOM_REG(uint32_t reg)
{
    uint32_t val;
    __asm__ __volatile__(
        "read_custreg %0, zero, %1"
        : "=r" (val)
        : "r" (reg)
    );
    return val;
}

static inline void WRITE_CUSTOM_REG(uint32_t reg, uint32_t val)
{
    __asm__ __volatile__(
        "write_custreg zero, %1, %0"
        :
        : "r" (reg), "r" (val)
    );
}

/* Access methods for custom instructions. */
{{range .Instructions}}
static inline void {{upper .Name}}(uint32_t* rd, uint32_t rs1, uint32_t rs2)
{
    __asm__ __volatile__(
        "{{.Name}} %0, %1, %2"
        : "=r" (*rd)
        : "r" (rs1), "r" (rs2)
    );
}
{{end}}
#endif // __RISCVINTR_H__
`))

// intrinsicsData is the template input for Intrinsics.
type intrinsicsData struct {
	Registers    []Register
	Instructions []isa.EncodedInstruction
}

// Intrinsics renders the C intrinsics header exposing custom registers and
// a wrapper per RegReg instruction. ImmReg instructions take an immediate
// operand and get no generic wrapper, matching the upstream generator.
func Intrinsics(regmap *RegisterMap, insts []isa.EncodedInstruction) (string, error) {
	data := intrinsicsData{}
	if regmap != nil {
		data.Registers = regmap.Registers
	}
	for _, inst := range insts {
		if inst.Form != isa.RegReg || reservedIntrinsics[inst.Name] {
			continue
		}
		data.Instructions = append(data.Instructions, inst)
	}

	var b strings.Builder
	if err := intrinsicsTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
