package service

import (
	"errors"

	"github.com/maheshrc27/feedrail/pkg/utils"
)

// CredentialService seals and opens stored platform access tokens.
type CredentialService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type credentialService struct {
	key []byte
}

func NewCredentialService(secretKey string) (CredentialService, error) {
	switch len(secretKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("SECRET_KEY must be 16, 24 or 32 bytes")
	}
	return &credentialService{key: []byte(secretKey)}, nil
}

func (s *credentialService) Encrypt(plaintext string) (string, error) {
	return utils.Encrypt([]byte(plaintext), s.key)
}

func (s *credentialService) Decrypt(ciphertext string) (string, error) {
	return utils.Decrypt(ciphertext, s.key)
}
