package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brine/internal/step"
)

func TestFindEnclosedSteps(t *testing.T) {
	conf := step.EventuallyConf{MaxTime: time.Second, Interval: 10 * time.Millisecond}
	start := step.EventuallyStart{Conf: conf}
	stop := step.EventuallyStop{Conf: conf}
	a := assertStep("a", 1, 1)
	b := assertStep("b", 1, 1)
	c := assertStep("c", 1, 1)

	tests := []struct {
		name         string
		rest         []step.Step
		wantEnclosed []string
		wantTail     []string
		wantLen      int
	}{
		{
			name:         "simple region",
			rest:         []step.Step{a, b, stop},
			wantEnclosed: []string{"a", "b"},
			wantTail:     []string{},
			wantLen:      2,
		},
		{
			name:         "sibling region after stop stays in tail",
			rest:         []step.Step{a, b, stop, start, c, stop},
			wantEnclosed: []string{"a", "b"},
			wantTail:     []string{"Eventually block with maxDuration = 1s and interval = 10ms", "c"},
			wantLen:      2,
		},
		{
			name:         "nested region is enclosed whole",
			rest:         []step.Step{a, start, b, stop, c, stop},
			wantEnclosed: []string{"a", "Eventually block with maxDuration = 1s and interval = 10ms", "b", "c"},
			wantTail:     []string{},
			wantLen:      5,
		},
		{
			name:         "empty region",
			rest:         []step.Step{stop, a},
			wantEnclosed: []string{},
			wantTail:     []string{"a"},
			wantLen:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enclosed, tail, found := FindEnclosedSteps(tt.rest)

			require.True(t, found)
			assert.Len(t, enclosed, tt.wantLen)
			assert.Equal(t, tt.wantEnclosed, step.Titles(enclosed))
			assert.Equal(t, tt.wantTail, step.Titles(tail))
		})
	}
}

func TestFindEnclosedSteps_Unmatched(t *testing.T) {
	conf := step.EventuallyConf{MaxTime: time.Second, Interval: time.Millisecond}
	rest := []step.Step{
		assertStep("a", 1, 1),
		step.EventuallyStart{Conf: conf},
		step.EventuallyStop{Conf: conf},
	}

	enclosed, tail, found := FindEnclosedSteps(rest)

	assert.False(t, found)
	assert.Len(t, enclosed, 3)
	assert.Empty(t, tail)
}

func TestFindEnclosedSteps_EnclosedDoesNotAliasTail(t *testing.T) {
	conf := step.EventuallyConf{MaxTime: time.Second, Interval: time.Millisecond}
	rest := []step.Step{assertStep("a", 1, 1), step.EventuallyStop{Conf: conf}, assertStep("c", 1, 1)}

	enclosed, _, _ := FindEnclosedSteps(rest)
	_ = append(enclosed, assertStep("x", 1, 1))

	assert.Equal(t, "", step.Title(rest[1]), "stop marker must not be overwritten")
}
