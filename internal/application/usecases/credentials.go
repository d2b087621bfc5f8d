package usecases

import (
	"errors"
	"fmt"

	"github.com/example/fumoto-monitor/internal/application/session"
)

// Opener decrypts values sealed with the CRED_ENC_KEY.
type Opener interface {
	DecryptString(sealed string) (string, error)
}

type Sealer interface {
	EncryptToString(plaintext string) (string, error)
}

type CredentialsService struct {
	AEAD Opener
}

// Resolve prefers the plaintext password and opens the sealed one otherwise.
func (s CredentialsService) Resolve(email, password, sealed string) (session.Credentials, error) {
	c := session.Credentials{Email: email, Password: password}
	if c.Password != "" || sealed == "" {
		return c, nil
	}
	if s.AEAD == nil {
		return c, errors.New("sealed password needs an encryption key")
	}
	v, err := s.AEAD.DecryptString(sealed)
	if err != nil {
		return c, fmt.Errorf("open sealed password: %w", err)
	}
	c.Password = v
	return c, nil
}

func Seal(s Sealer, password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	return s.EncryptToString(password)
}
