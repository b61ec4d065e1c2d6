// Package cryptox implements the credential engine: salt generation and
// salted argon2id password hashing and verification.
//
// Hashes use the PHC string format
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
//
// so the cost parameters travel with every hash and verification stays
// reproducible after the defaults below are raised. Hashes produced by the
// previous bcrypt-based scheme still verify; NeedsRehash reports them so
// callers can upgrade on the next successful login.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2id cost parameters for new hashes.
const (
	ArgonTime    uint32 = 3
	ArgonMemory  uint32 = 64 * 1024 // KiB
	ArgonThreads uint8  = 4
	ArgonKeyLen  uint32 = 32
)

// Upper bounds accepted when decoding a stored hash.
const (
	maxArgonTime   = 16
	maxArgonMemory = 1 << 20 // 1 GiB in KiB
)

var errMalformedHash = errors.New("malformed password hash")

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

var currentParams = argonParams{time: ArgonTime, memory: ArgonMemory, threads: ArgonThreads}

// GenerateSalt returns common.SaltSize bytes from the system CSPRNG.
func GenerateSalt() []byte {
	return common.GenerateRandByteArray(common.SaltSize)
}

// HashPassword derives an argon2id hash of password with salt.
func HashPassword(password string, salt []byte) (string, error) {
	if password == "" {
		return "", common.InvalidArgument("password is required")
	}
	if len(salt) == 0 {
		return "", common.InvalidArgument("salt is required")
	}

	key := argon2.IDKey([]byte(password), salt, currentParams.time, currentParams.memory, currentParams.threads, ArgonKeyLen)
	return encodeHash(currentParams, salt, key), nil
}

// VerifyPassword reports whether password matches hash. For argon2id hashes
// the stored salt must equal salt; both comparisons run in constant time.
func VerifyPassword(hash, password string, salt []byte) (bool, error) {
	if hash == "" {
		return false, common.InvalidArgument("hash is required")
	}
	if password == "" {
		return false, common.InvalidArgument("password is required")
	}

	if isBcrypt(hash) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", common.ErrorInvalidArgument, err)
		}
	}

	if len(salt) == 0 {
		return false, common.InvalidArgument("salt is required")
	}

	p, storedSalt, key, err := decodeHash(hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorInvalidArgument, err)
	}
	if subtle.ConstantTimeCompare(storedSalt, salt) != 1 {
		return false, nil
	}

	candidate := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NeedsRehash reports whether hash was produced by a legacy scheme or with
// cost parameters other than the current ones.
func NeedsRehash(hash string) bool {
	if isBcrypt(hash) {
		return true
	}
	p, _, _, err := decodeHash(hash)
	if err != nil {
		return true
	}
	return p != currentParams
}

// SimulateVerify spends the same work as verifying a real argon2id hash.
// Login uses it for unknown usernames so response time does not reveal
// whether an account exists.
func SimulateVerify(password string) {
	_ = argon2.IDKey([]byte(password), GenerateSalt(), currentParams.time, currentParams.memory, currentParams.threads, ArgonKeyLen)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func encodeHash(p argonParams, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

func decodeHash(hash string) (argonParams, []byte, []byte, error) {
	var p argonParams

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return p, nil, nil, errMalformedHash
	}
	if p.time == 0 || p.time > maxArgonTime || p.memory == 0 || p.memory > maxArgonMemory || threads == 0 || threads > 255 {
		return p, nil, nil, errMalformedHash
	}
	p.threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformedHash
	}
	return p, salt, key, nil
}
