package auth

import (
	"bytes"
	"testing"

	"github.com/juju/errors"
)

func TestEncryptChallengeIsDeterministic(t *testing.T) {
	challenge := make([]byte, 16) // all zeros, per the spec's worked example
	password := "12345678"

	r1, err := EncryptChallenge(password, challenge)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := EncryptChallenge(password, challenge)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r1, r2) {
		t.Fatalf("same inputs produced different responses: %x vs %x", r1, r2)
	}
	if len(r1) != 16 {
		t.Fatalf("expected 16-byte response, got %d", len(r1))
	}
}

func TestEncryptChallengeTruncatesLongPasswords(t *testing.T) {
	challenge := make([]byte, 16)

	short, err := EncryptChallenge("12345678", challenge)
	if err != nil {
		t.Fatal(err)
	}
	long, err := EncryptChallenge("12345678extra-characters-ignored", challenge)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(short, long) {
		t.Fatalf("password beyond 8 bytes should be ignored: %x vs %x", short, long)
	}
}

func TestEncryptChallengeZeroPadsShortPasswords(t *testing.T) {
	challenge := make([]byte, 16)
	for i := range challenge {
		challenge[i] = byte(i)
	}

	padded, err := EncryptChallenge("ab", challenge)
	if err != nil {
		t.Fatal(err)
	}
	literal, err := EncryptChallenge("ab\x00\x00\x00\x00\x00\x00", challenge)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(padded, literal) {
		t.Fatalf("short password should behave as zero-padded to 8 bytes: %x vs %x", padded, literal)
	}
}

func TestEncryptChallengeRejectsEmptyPassword(t *testing.T) {
	_, err := EncryptChallenge("", make([]byte, 16))
	if errors.Cause(err) != ErrEmptyPassword {
		t.Fatalf("got %v, want ErrEmptyPassword", err)
	}
}

func TestEncryptChallengeRejectsBadChallengeSize(t *testing.T) {
	_, err := EncryptChallenge("password", make([]byte, 8))
	if errors.Cause(err) != ErrChallengeSize {
		t.Fatalf("got %v, want ErrChallengeSize", err)
	}
}

func TestEncryptChallengeVariesWithChallenge(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	b[0] = 1

	ra, err := EncryptChallenge("password", a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := EncryptChallenge("password", b)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ra, rb) {
		t.Fatal("different challenges produced the same response")
	}
}
