package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/Miraines/MoonyAndStarry/todo-service/internal/domain/auth/errors"
)

var DefaultParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type Argon2Hasher struct {
	params *argon2id.Params
	pepper string
}

func NewArgon2Hasher(params *argon2id.Params, pepper string) *Argon2Hasher {
	if params == nil {
		params = DefaultParams
	}
	return &Argon2Hasher{params: params, pepper: pepper}
}

func (h *Argon2Hasher) Hash(plain string) (string, error) {
	digest, err := argon2id.CreateHash(plain+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return digest, nil
}

// Verify never fails: a malformed digest is just a mismatch.
func (h *Argon2Hasher) Verify(plain, digest string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, digest)
	return err == nil && ok
}
