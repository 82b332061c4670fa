package transfer

import "github.com/golang-jwt/jwt/v5"

// WorkerClaims authenticate a delivery to the worker endpoint and bind it to
// a single post.
type WorkerClaims struct {
	PostID string `json:"post_id"`
	jwt.RegisteredClaims
}
