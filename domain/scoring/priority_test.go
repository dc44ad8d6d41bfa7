package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedDefaultSelection(t *testing.T) {
	got, err := Expected(5, 4, EffortS)
	require.NoError(t, err)
	assert.Equal(t, "20", got)
}

func TestCalculateRounding(t *testing.T) {
	tests := []struct {
		name    string
		impact  int
		urgency int
		effort  EffortSize
		want    string
	}{
		{"default form values", 3, 3, EffortM, "3"},
		{"two decimals", 5, 4, EffortM, "6.67"},
		{"half rounds up", 1, 1, EffortXL, "0.13"},
		{"single decimal", 1, 1, EffortL, "0.2"},
		{"max", 5, 5, EffortS, "25"},
		{"xl", 4, 4, EffortXL, "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expected(tt.impact, tt.urgency, tt.effort)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateRejectsOutOfRange(t *testing.T) {
	_, err := Calculate(0, 3, EffortM)
	assert.ErrorContains(t, err, "impact")

	_, err = Calculate(3, 6, EffortM)
	assert.ErrorContains(t, err, "urgency")

	_, err = Calculate(3, 3, EffortSize("XXL"))
	assert.ErrorContains(t, err, "invalid effort size")
}

func TestParseEffort(t *testing.T) {
	e, err := ParseEffort(" xl ")
	require.NoError(t, err)
	assert.Equal(t, EffortXL, e)
	assert.Equal(t, "XL (8)", e.Label())

	_, err = ParseEffort("huge")
	assert.Error(t, err)
}
