package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/security"
)

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("open-locker-7", fastArgon)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"), hash)

	ok, err := security.VerifyPassword("open-locker-7", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("open-locker-8", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := security.HashPassword("same", fastArgon)
	require.NoError(t, err)
	b, err := security.HashPassword("same", fastArgon)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := security.HashPassword("", fastArgon)
	assert.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA",
	} {
		_, err := security.VerifyPassword("irrelevant", encoded)
		assert.ErrorIs(t, err, security.ErrInvalidHash, encoded)
	}
}

func TestVerifyPasswordAcceptsBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("snack-drawer"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := security.VerifyPassword("snack-drawer", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = security.VerifyPassword("wrong", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNeedsRehash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("snack-drawer"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, security.NeedsRehash(string(legacy), fastArgon))

	current, err := security.HashPassword("snack-drawer", fastArgon)
	require.NoError(t, err)
	assert.False(t, security.NeedsRehash(current, fastArgon))

	stronger := fastArgon
	stronger.ArgonTime = 2
	assert.True(t, security.NeedsRehash(current, stronger))

	assert.False(t, security.NeedsRehash("garbage", fastArgon))
}

func TestParamsClampsConfig(t *testing.T) {
	p := security.Params(config.PasswordConfig{ArgonParallelism: 1000, ArgonKeyLen: 4})
	assert.Equal(t, uint8(255), p.Parallelism)
	assert.Equal(t, uint32(16), p.KeyLen)
	assert.Equal(t, uint32(1), p.Time)
	assert.Equal(t, uint32(8), p.Memory)
	assert.Equal(t, uint32(8), p.SaltLen)
}
