package utils

import "golang.org/x/crypto/bcrypt"

// VerifyResult is the outcome of checking a password against a stored hash.
type VerifyResult int

const (
	VerifyFail VerifyResult = iota
	VerifySuccess
)

func (r VerifyResult) String() string {
	if r == VerifySuccess {
		return "success"
	}
	return "fail"
}

// PasswordHasher produces and checks bcrypt hashes. Every hash embeds its
// own random salt, so hashing the same password twice gives two different
// strings.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside the range bcrypt accepts.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash returns a salted bcrypt hash of plain.
func (h PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares plain against hash in constant time. A malformed hash is
// reported as VerifyFail.
func (h PasswordHasher) Verify(hash, plain string) VerifyResult {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) != nil {
		return VerifyFail
	}
	return VerifySuccess
}
