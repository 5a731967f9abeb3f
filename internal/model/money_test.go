package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinor(t *testing.T) {
	minor, err := ToMinor(dec("1500.25"))
	require.NoError(t, err)
	assert.Equal(t, int64(150025), minor)

	minor, err = ToMinor(dec("-0.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(-50), minor)

	_, err = ToMinor(dec("1.005"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestToMinor_OutOfRange(t *testing.T) {
	minor, err := ToMinor(dec("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), minor)

	for _, s := range []string{"92233720368547758.08", "184467440737095516.17", "-92233720368547758.09"} {
		_, err := ToMinor(dec(s))
		assert.ErrorIs(t, err, ErrValidation, s)
	}
}

func TestFromMinor(t *testing.T) {
	assert.Equal(t, "1500.25", FromMinor(150025).StringFixed(2))
	assert.Equal(t, "-0.50", FromMinor(-50).StringFixed(2))
}

func TestMinorRoundTripAccumulates(t *testing.T) {
	// 0.10 added a thousand times stays exact.
	var total int64
	for i := 0; i < 1000; i++ {
		m, err := ToMinor(dec("0.10"))
		require.NoError(t, err)
		total += m
	}
	assert.Equal(t, "100.00", FromMinor(total).StringFixed(2))
}
