package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const apiKeyPrefix = "fr_"

func GenerateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return apiKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
