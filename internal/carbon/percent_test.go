package carbon

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentOf(t *testing.T) {
	assert.Equal(t, Percent{Value: 25, Defined: true}, PercentOf(1, 4))
	assert.Equal(t, Percent{}, PercentOf(1, 0))
	assert.Equal(t, Percent{}, PercentOf(0, 0))
	assert.Equal(t, Percent{}, PercentOf(math.Inf(1), 1))
}

func TestPercent_String(t *testing.T) {
	assert.Equal(t, "N/A", Percent{}.String())
	assert.Equal(t, "12.3%", Percent{Value: 12.345, Defined: true}.String())
}

func TestPercent_JSON(t *testing.T) {
	type wrapper struct {
		P Percent `json:"p"`
	}

	data, err := json.Marshal(wrapper{P: Percent{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"N/A"}`, string(data))

	data, err = json.Marshal(wrapper{P: Percent{Value: 42.5, Defined: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":42.5}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"p":"N/A"}`), &w))
	assert.False(t, w.P.Defined)

	require.NoError(t, json.Unmarshal([]byte(`{"p":7}`), &w))
	assert.Equal(t, Percent{Value: 7, Defined: true}, w.P)

	assert.Error(t, json.Unmarshal([]byte(`{"p":"seven"}`), &w))
}
