package helpers

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new hashes. Tests lower it.
var BcryptCost = bcrypt.DefaultCost

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// HashPassword hashes plain with bcrypt. Inputs over 72 bytes are rejected
// with bcrypt.ErrPasswordTooLong.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck spends roughly the time of a real comparison so a login
// for an unknown email takes as long as one with a wrong password.
func BurnPasswordCheck(plain string) {
	decoyOnce.Do(func() {
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
}
