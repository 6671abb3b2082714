// Package auth implements RFB "VNC Authentication" (security type 2): a
// 16-byte DES challenge-response keyed on the session password.
package auth

import (
	"crypto/des"
	"math/bits"

	"github.com/juju/errors"
)

// ErrEmptyPassword is returned when EncryptChallenge is called with no
// password at all; the server would reject the all-zero key this would
// otherwise silently produce.
var ErrEmptyPassword = errors.New("auth: password must not be empty")

// ErrChallengeSize is returned when the challenge isn't exactly 16 bytes,
// the two 8-byte DES blocks the RFB VNC Authentication challenge always
// consists of.
var ErrChallengeSize = errors.New("auth: challenge must be 16 bytes")

// EncryptChallenge computes the 16-byte response to a VNC Authentication
// challenge: the password truncated or zero-padded to 8 bytes, with each
// byte's bits reversed before building the DES key (VNC's key schedule
// runs the bits backwards relative to the rest of DES), then used to
// ECB-encrypt the two 8-byte halves of challenge independently.
func EncryptChallenge(password string, challenge []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errors.Trace(ErrEmptyPassword)
	}
	if len(challenge) != 16 {
		return nil, errors.Trace(ErrChallengeSize)
	}

	if len(password) > 8 {
		password = password[:8]
	}
	key := make([]byte, 8)
	for i := 0; i < len(password); i++ {
		key[i] = bits.Reverse8(password[i])
	}

	cipher, err := des.NewCipher(key)
	if err != nil {
		return nil, errors.Annotate(err, "auth: building DES cipher")
	}

	response := make([]byte, 16)
	cipher.Encrypt(response[:8], challenge[:8])
	cipher.Encrypt(response[8:], challenge[8:])
	return response, nil
}
