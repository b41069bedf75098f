package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellUnmarshal(t *testing.T) {
	cases := map[string]Cell{
		`"1200.50"`: "1200.50",
		`"ACME-1"`:  "ACME-1",
		`1200`:      "1200",
		`12.5`:      "12.5",
		`1e3`:       "1000",
		`-0.25`:     "-0.25",
		`null`:      "",
	}
	for in, want := range cases {
		var c Cell
		require.NoError(t, json.Unmarshal([]byte(in), &c), in)
		assert.Equal(t, want, c, in)
	}

	for _, bad := range []string{`true`, `[1]`, `{"v":1}`} {
		var c Cell
		assert.Error(t, json.Unmarshal([]byte(bad), &c), bad)
	}
}

func TestLeadInputNumericValue(t *testing.T) {
	var in LeadInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Janet","value":1200}`), &in))
	assert.Equal(t, Cell("1200"), in.Value)

	var act ActivityInput
	require.NoError(t, json.Unmarshal([]byte(`{"lead_id":5,"type":"Call"}`), &act))
	assert.Equal(t, Cell("5"), act.LeadID)
}
