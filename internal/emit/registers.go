package emit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Register is one custom register exposed to intrinsics.
type Register struct {
	Name string `yaml:"name"`
	Addr uint32 `yaml:"addr"`
}

// RegisterMap is the custom register file description, loaded from YAML:
//
//	registers:
//	  - name: CUST_STATUS
//	    addr: 0x7C0
type RegisterMap struct {
	Registers []Register `yaml:"registers"`
}

// LoadRegisterMap reads and validates a register map file.
func LoadRegisterMap(path string) (*RegisterMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading register map: %w", err)
	}
	return ParseRegisterMap(data)
}

// ParseRegisterMap parses register map YAML.
func ParseRegisterMap(data []byte) (*RegisterMap, error) {
	var regmap RegisterMap
	if err := yaml.Unmarshal(data, &regmap); err != nil {
		return nil, fmt.Errorf("parsing register map: %w", err)
	}

	seen := make(map[string]bool)
	for i, reg := range regmap.Registers {
		if reg.Name == "" {
			return nil, fmt.Errorf("register %d has no name", i)
		}
		if seen[reg.Name] {
			return nil, fmt.Errorf("duplicate register name %q", reg.Name)
		}
		seen[reg.Name] = true
	}

	return &regmap, nil
}
