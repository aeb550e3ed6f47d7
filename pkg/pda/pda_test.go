package pda

import (
	"crypto/sha256"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
)

func testProgramID(t *testing.T) common.Address {
	t.Helper()
	digest := sha256.Sum256([]byte("pda test program"))
	return common.Address(digest)
}

func TestFindDeterministic(t *testing.T) {
	programID := testProgramID(t)

	addr1, bump1, err := Find(programID, []byte("marketplace"), []byte("Testmarketplace"))
	require.NoError(t, err)
	addr2, bump2, err := Find(programID, []byte("marketplace"), []byte("Testmarketplace"))
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
	require.Equal(t, bump1, bump2)
	require.False(t, addr1.IsZero())
}

func TestFindDistinctSeeds(t *testing.T) {
	programID := testProgramID(t)

	seen := make(map[common.Address]string)
	tuples := [][][]byte{
		{[]byte("marketplace"), []byte("alpha")},
		{[]byte("marketplace"), []byte("beta")},
		{[]byte("treasury"), []byte("alpha")},
		{[]byte("rewards"), []byte("alpha")},
		{[]byte("manager"), []byte("alpha")},
	}
	for _, seeds := range tuples {
		addr, _, err := Find(programID, seeds...)
		require.NoError(t, err)
		prev, ok := seen[addr]
		require.False(t, ok, "collision between %q and current tuple", prev)
		seen[addr] = string(seeds[0]) + "/" + string(seeds[1])
	}
}

func TestDerivedAddressIsOffCurve(t *testing.T) {
	programID := testProgramID(t)

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		addr, _, err := Find(programID, []byte("marketplace"), []byte(name))
		require.NoError(t, err)
		require.False(t, isOnCurve(addr.Bytes()))
	}
}

func TestCreateWithWrongBump(t *testing.T) {
	programID := testProgramID(t)

	addr, bump, err := Find(programID, []byte("treasury"), []byte("seed"))
	require.NoError(t, err)

	recreated, err := Create(programID, bump, []byte("treasury"), []byte("seed"))
	require.NoError(t, err)
	require.Equal(t, addr, recreated)

	// Any other usable bump must yield a different address.
	for otherBump := int(bump) - 1; otherBump >= 0; otherBump-- {
		other, err := Create(programID, uint8(otherBump), []byte("treasury"), []byte("seed"))
		if err != nil {
			continue
		}
		require.NotEqual(t, addr, other)
		break
	}
}

func TestVerifyFailsClosed(t *testing.T) {
	programID := testProgramID(t)

	addr, _, err := Find(programID, []byte("manager"), []byte("organizer"))
	require.NoError(t, err)

	_, err = Verify(addr, programID, []byte("manager"), []byte("organizer"))
	require.NoError(t, err)

	// Wrong seeds for the claimed address.
	_, err = Verify(addr, programID, []byte("manager"), []byte("impostor"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.InvalidArgument))

	// Wrong program id.
	otherProgram := sha256.Sum256([]byte("another program"))
	_, err = Verify(addr, common.Address(otherProgram), []byte("manager"), []byte("organizer"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestSeedLimits(t *testing.T) {
	programID := testProgramID(t)

	_, _, err := Find(programID, make([]byte, MaxSeedLen+1))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.InvalidArgument))

	seeds := make([][]byte, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = Find(programID, seeds...)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.InvalidArgument))
}
