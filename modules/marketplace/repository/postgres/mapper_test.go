package postgres

import (
	"math"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, value := range []uint64{0, 1, 1_000, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64} {
		numeric := numericFromUint64(value)
		assert.True(t, numeric.Valid)
		assert.EqualValues(t, 0, numeric.Exp)

		result, err := uint64FromNumeric(numeric)
		assert.NoError(t, err)
		assert.Equal(t, value, result)
	}
}

func TestUint64FromNumeric(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		_, err := uint64FromNumeric(pgtype.Numeric{})
		assert.Error(t, err)
	})
	t.Run("negative", func(t *testing.T) {
		_, err := uint64FromNumeric(pgtype.Numeric{Int: big.NewInt(-1), Valid: true})
		assert.Error(t, err)
	})
	t.Run("too large", func(t *testing.T) {
		tooLarge := new(big.Int).Lsh(big.NewInt(1), 64)
		_, err := uint64FromNumeric(pgtype.Numeric{Int: tooLarge, Valid: true})
		assert.Error(t, err)
	})
	t.Run("nonzero exponent", func(t *testing.T) {
		_, err := uint64FromNumeric(pgtype.Numeric{Int: big.NewInt(1), Exp: 3, Valid: true})
		assert.Error(t, err)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, isUniqueViolation(errors.Wrap(&pgconn.PgError{Code: uniqueViolationCode}, "insert failed")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("not a pg error")))
}
