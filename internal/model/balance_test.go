package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeltaApplyTo(t *testing.T) {
	bal := Balance{W: 100, B: 5}

	next, err := NewDelta(CurrencyW, -100, ReasonSpinBet).ApplyTo(bal)
	require.NoError(t, err)
	require.Equal(t, Balance{W: 0, B: 5}, next)

	next, err = NewDelta(CurrencyB, 3, ReasonWelcome).ApplyTo(bal)
	require.NoError(t, err)
	require.Equal(t, Balance{W: 100, B: 8}, next)
}

func TestDeltaApplyToRejectsNegative(t *testing.T) {
	bal := Balance{W: 100, B: 5}

	next, err := NewDelta(CurrencyW, -101, ReasonSpinBet).ApplyTo(bal)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, bal, next)

	// Одна валюта в минус отклоняет все изменение
	_, err = Delta{W: 50, B: -6, Reason: ReasonBoosterBuy}.ApplyTo(bal)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestDeltaIsZero(t *testing.T) {
	require.True(t, Delta{Reason: ReasonSpinWin}.IsZero())
	require.False(t, NewDelta(CurrencyB, -1, ReasonSpinBet).IsZero())
}
