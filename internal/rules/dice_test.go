package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/entity"
	"diceparty/internal/rules"
)

func TestRollDice_FirstRollThrowsTwoD6(t *testing.T) {
	roll := rules.RollDice(nil, 0, "")

	require.Len(t, roll, 2)
	for _, d := range roll {
		assert.Equal(t, entity.D6, d.DiceType)
		assert.False(t, d.IsDeathDice)
	}
}

func TestRollDice_SubsequentRollThrowsOneD6(t *testing.T) {
	prev := []entity.Roll{{{DiceType: entity.D6, Value: 3}, {DiceType: entity.D6, Value: 3}}}

	roll := rules.RollDice(prev, 0, "")

	require.Len(t, roll, 1)
	assert.Equal(t, entity.D6, roll[0].DiceType)
}

func TestRollDice_DeathDiceOnlyOnFirstRollWithStreak(t *testing.T) {
	roll := rules.RollDice(nil, 3, "")
	require.Len(t, roll, 3)
	assert.True(t, roll[2].IsDeathDice)
	assert.Equal(t, entity.D4, roll[2].DiceType)

	prev := []entity.Roll{{{DiceType: entity.D6, Value: 3}, {DiceType: entity.D6, Value: 3}}}
	again := rules.RollDice(prev, 3, "")
	require.Len(t, again, 1)
	assert.False(t, again[0].IsDeathDice)
}

func TestRollDice_DeathDiceEscalatesWithWinCounter(t *testing.T) {
	cases := []struct {
		winCounter int32
		want       entity.DiceType
	}{
		{3, entity.D4},
		{4, entity.D4},
		{5, entity.D6},
		{6, entity.D6},
		{7, entity.D8},
		{9, entity.D10},
		{11, entity.D12},
		{13, entity.D20},
		{15, entity.D10Percentile},
	}
	for _, tc := range cases {
		roll := rules.RollDice(nil, tc.winCounter, "")
		require.Len(t, roll, 3)
		assert.Equal(t, tc.want, roll[2].DiceType, "win_counter %d", tc.winCounter)
	}
}

func TestRollDice_SpecialNicknameOverridesValuesPositionally(t *testing.T) {
	roll := rules.RollDice(nil, 0, "SNAKE_EYES")

	require.Len(t, roll, 2)
	assert.Equal(t, 1, roll[0].Value)
	assert.Equal(t, 1, roll[1].Value)
}

func TestRollDice_SpecialNicknameWithDeathDice(t *testing.T) {
	roll := rules.RollDice(nil, 3, "DUAL_SPECIAL")

	require.Len(t, roll, 3)
	assert.Equal(t, 2, roll[0].Value)
	assert.Equal(t, 2, roll[1].Value)
	assert.Equal(t, 3, roll[2].Value)
}

func TestRollDice_UnknownNicknameLeavesRandomValues(t *testing.T) {
	roll := rules.RollDice(nil, 0, "REGULAR_PLAYER")

	require.Len(t, roll, 2)
	for _, d := range roll {
		assert.GreaterOrEqual(t, d.Value, 1)
		assert.LessOrEqual(t, d.Value, 7)
	}
}
