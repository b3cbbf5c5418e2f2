package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/opforge/opforge/internal/isa"
)

// RunWithGolden executes a scenario and compares the synthesized tree
// against a golden snapshot. The snapshot is stored in
// testdata/golden/{scenario.Name}.golden as canonical JSON.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Only meaningful for scenarios expecting the tree outcome; any other
// outcome is returned as an error.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if result.Tree == nil {
		return fmt.Errorf("scenario %s: outcome %s has no tree to snapshot", scenario.Name, result.Outcome)
	}

	snapshot, err := isa.MarshalCanonical(result.Tree.CanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return nil
}
