package eisa

import (
	"math"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestGaidatzisEffects(t *testing.T) {
	cond := mustCondition(t, "a", "a", "b", "b")
	nlex := [][]float64{{1, 2, 5, 6}, {3, 3, 3, 3}}
	nlin := [][]float64{{1, 1, 2, 2}, {4, 2, 3, 1}}
	eff := gaidatzisEffects([]string{"g1", "g2"}, nlex, nlin, cond)
	expect.True(t, math.Abs(eff.Dex[0]-4) < 1e-12)
	expect.True(t, math.Abs(eff.Din[0]-1) < 1e-12)
	expect.EQ(t, eff.DexDin[0], eff.Dex[0]-eff.Din[0])
	expect.True(t, math.Abs(eff.Dex[1]) < 1e-12)
	expect.True(t, math.Abs(eff.Din[1]+1) < 1e-12)
	expect.EQ(t, eff.DexDin[1], eff.Dex[1]-eff.Din[1])
}

func TestPredFCEffectsWithSampleEffects(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	d, err := buildDesign(cond, testColumns(cond), true)
	expect.NoError(t, err)

	// Coefficients: intercept 1, samples s2..s4 at 0.5/1.0/1.5, exon
	// indicators 2 (ctrl) and 3 (treat). Baselines are 1, 1.5, 2, 2.5.
	pfc := [][]float64{{1, 0.5, 1.0, 1.5, 2, 3}}
	eff, err := predFCEffects([]string{"g1"}, pfc, d, cond)
	expect.NoError(t, err)
	expect.True(t, math.Abs(eff.Din[0]-1) < 1e-12)    // (2+2.5)/2 - (1+1.5)/2
	expect.True(t, math.Abs(eff.DexDin[0]-1) < 1e-12) // 3 - 2
	expect.True(t, math.Abs(eff.Dex[0]-2) < 1e-12)
}

func TestPredFCEffectsMainEffects(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	d, err := buildDesign(cond, testColumns(cond), false)
	expect.NoError(t, err)

	pfc := [][]float64{{5, 0.25, -1.5, 0.75}}
	eff, err := predFCEffects([]string{"g1"}, pfc, d, cond)
	expect.NoError(t, err)
	expect.EQ(t, eff.Din[0], -1.5)
	expect.EQ(t, eff.DexDin[0], 0.75)
	expect.EQ(t, eff.Dex[0], -0.75)
}

func TestPredFCEffectsDimensionMismatch(t *testing.T) {
	cond := mustCondition(t, "ctrl", "ctrl", "treat", "treat")
	d, err := buildDesign(cond, testColumns(cond), false)
	expect.NoError(t, err)
	_, err = predFCEffects([]string{"g1"}, [][]float64{{1, 2}}, d, cond)
	expect.True(t, err != nil)
}
