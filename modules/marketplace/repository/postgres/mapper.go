package postgres

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tickr-network/tickr/common"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// numericFromUint64 converts a native amount to a NUMERIC parameter. Amounts
// are stored as NUMERIC(20,0) because the upper half of the uint64 range does
// not fit in BIGINT.
func numericFromUint64(value uint64) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   new(big.Int).SetUint64(value),
		Valid: true,
	}
}

func uint64FromNumeric(value pgtype.Numeric) (uint64, error) {
	if !value.Valid || value.Int == nil {
		return 0, errors.New("null numeric value")
	}
	if value.Exp != 0 {
		return 0, errors.Newf("unexpected numeric exponent %d", value.Exp)
	}
	if value.Int.Sign() < 0 || !value.Int.IsUint64() {
		return 0, errors.Newf("numeric value %s out of uint64 range", value.Int)
	}
	return value.Int.Uint64(), nil
}

func addressFromBytes(raw []byte) (common.Address, error) {
	addr, err := common.NewAddressFromBytes(raw)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return addr, nil
}
