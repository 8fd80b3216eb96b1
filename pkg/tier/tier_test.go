package tier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsOf(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		score int
		want  Tier
	}{
		{0, Simple},
		{30, Simple},
		{31, Medium},
		{50, Medium},
		{60, Medium},
		{61, Complex},
		{100, Complex},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Of(tt.score), "score %d", tt.score)
	}
}

func TestThresholdsMonotonic(t *testing.T) {
	for _, th := range []Thresholds{DefaultThresholds(), {SimpleMax: 10, MediumMax: 90}, {SimpleMax: 49, MediumMax: 50}} {
		prev := th.Of(0)
		for s := 1; s <= 100; s++ {
			cur := th.Of(s)
			require.GreaterOrEqual(t, int(cur), int(prev), "thresholds %+v score %d", th, s)
			prev = cur
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{SimpleMax: 60, MediumMax: 60}.Validate())
	assert.Error(t, Thresholds{SimpleMax: 70, MediumMax: 40}.Validate())
	assert.Error(t, Thresholds{SimpleMax: -1, MediumMax: 40}.Validate())
	assert.Error(t, Thresholds{SimpleMax: 30, MediumMax: 100}.Validate())
}

func TestParseAndJSON(t *testing.T) {
	got, err := Parse(" Complex ")
	require.NoError(t, err)
	assert.Equal(t, Complex, got)

	_, err = Parse("premium")
	assert.Error(t, err)

	data, err := json.Marshal(struct {
		Tier Tier `json:"tier"`
	}{Medium})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"medium"}`, string(data))

	var decoded Tier
	require.NoError(t, json.Unmarshal([]byte(`"simple"`), &decoded))
	assert.Equal(t, Simple, decoded)
	assert.Equal(t, "Tier(7)", Tier(7).String())
	assert.False(t, Tier(7).Valid())
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-40))
	assert.Equal(t, 42, ClampScore(42))
	assert.Equal(t, 100, ClampScore(140))
}
