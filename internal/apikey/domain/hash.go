package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 120000
	hashKeyLength  = 64
	saltLength     = 16
	lookupLength   = 12
)

// HashSecret derives a salted PBKDF2-SHA512 hash of the raw secret, encoded
// as "salt:hash" with both parts hex.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	derived := pbkdf2.Key([]byte(secret), salt, hashIterations, hashKeyLength, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(derived), nil
}

// VerifySecret reports whether secret matches the stored "salt:hash" value.
// The full derivation runs even for malformed stored values so that a
// mismatch is not observable through timing.
func VerifySecret(secret, stored string) bool {
	salt, want, ok := splitStoredHash(stored)
	derived := pbkdf2.Key([]byte(secret), salt, hashIterations, hashKeyLength, sha512.New)
	if !ok {
		// Compare against an impossible value to keep the work constant.
		want = make([]byte, hashKeyLength)
	}
	return subtle.ConstantTimeCompare(derived, want) == 1 && ok
}

// LookupPrefix returns a short non-reversible index value for the secret so
// validation does not have to scan every stored credential.
func LookupPrefix(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:lookupLength]
}

func splitStoredHash(stored string) ([]byte, []byte, bool) {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return make([]byte, saltLength), nil, false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) == 0 {
		return make([]byte, saltLength), nil, false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil || len(want) != hashKeyLength {
		return salt, nil, false
	}
	return salt, want, true
}
