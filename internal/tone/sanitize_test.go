package tone

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeS8_Canonicalization(t *testing.T) {
	eq := map[string]float64{"800Hz": -99.0, "2kHz": 99.0}
	for i := 0; i < 50; i++ {
		eq[fmt.Sprintf("%dHz", 100+i*100)] = 1.0
	}

	raw := RawTone{
		Amp: map[string]float64{"Drive": 2.0, "TreB": -1.0},
		EQ:  eq,
		Effects: []EffectSpec{
			{Type: "Gate", Params: map[string]float64{"Thresh": 5.0}},
		},
	}

	result := Sanitize(raw)

	_, hasGain := result.Parameters.Amp["gain"]
	_, hasTreble := result.Parameters.Amp["treble"]
	assert.True(t, hasGain)
	assert.True(t, hasTreble)
	for _, v := range result.Parameters.Amp {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	assert.LessOrEqual(t, len(result.Parameters.EQ), 16)
	for _, db := range result.Parameters.EQ {
		assert.GreaterOrEqual(t, db, -12.0)
		assert.LessOrEqual(t, db, 12.0)
	}

	assert.Len(t, result.Parameters.Effects, 1)
	assert.Equal(t, "noise_gate", result.Parameters.Effects[0].Type)
	_, hasThreshold := result.Parameters.Effects[0].Params["threshold"]
	assert.True(t, hasThreshold)

	assert.NotEmpty(t, result.Warnings)
}

func TestSanitizeIdempotence(t *testing.T) {
	raw := RawTone{
		Amp:     map[string]float64{"Drive": 2.0, "unknownknob": 0.4},
		EQ:      map[string]float64{"800Hz": -99.0},
		Effects: []EffectSpec{{Type: "Gate", Params: map[string]float64{"Thresh": 5.0}}},
		Reverb:  map[string]float64{"Wet": 1.4},
		Delay:   map[string]float64{"FB": 2.0},
	}

	once := Sanitize(raw)
	twice := Sanitize(RawTone{
		Amp:     once.Parameters.Amp,
		EQ:      once.Parameters.EQ,
		Effects: once.Parameters.Effects,
		Reverb:  once.Parameters.Reverb,
		Delay:   once.Parameters.Delay,
	})

	assert.Equal(t, once.Parameters, twice.Parameters)
}

func TestSanitizeEffectsCapAndDropsEmpty(t *testing.T) {
	var effects []EffectSpec
	for i := 0; i < 7; i++ {
		effects = append(effects, EffectSpec{Type: "compressor", Params: map[string]float64{"totallyunknown": 0.5}})
	}
	raw := RawTone{Effects: effects}

	result := Sanitize(raw)
	assert.Empty(t, result.Parameters.Effects)
	assert.NotEmpty(t, result.Warnings)
}

func TestSanitizeDropsNonFinite(t *testing.T) {
	raw := RawTone{Amp: map[string]float64{"gain": nan()}}
	result := Sanitize(raw)
	assert.Empty(t, result.Parameters.Amp)
	assert.NotEmpty(t, result.Warnings)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
