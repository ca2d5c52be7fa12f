package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// RunWithGolden executes a scenario and compares its transcript against
// the golden file testdata/golden/<scenario.Name>.golden.
//
// When the scenario declares expected counters, those are asserted too.
// Golden files pin the exact wording and ordering of repair output;
// regenerate them with -update after an intentional change.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	require.NoError(t, err, "scenario %s failed to run", scenario.Name)

	if scenario.Expect != nil {
		require.Equal(t, scenario.Expect.Created, result.Counters.Created,
			"scenario %s: created count", scenario.Name)
		require.Equal(t, scenario.Expect.Errors, result.Counters.Errors,
			"scenario %s: error count", scenario.Name)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(result.Transcript))

	return result
}
