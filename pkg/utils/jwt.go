package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/feedrail/internal/transfer"
)

const workerIssuer = "feedrail"

// GenerateWorkerToken signs a token that lets a delivery mechanism call the
// worker endpoint for one post.
func GenerateWorkerToken(secretKey, postID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.WorkerClaims{
		PostID: postID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    workerIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func ValidateWorkerToken(secretKey, tokenString string) (*transfer.WorkerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.WorkerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(workerIssuer))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.WorkerClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
