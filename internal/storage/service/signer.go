package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/festy23/realty_ops/internal/storage/model"
)

// objectClaims bind a token to one object.
type objectClaims struct {
	Bucket string `json:"bkt"`
	jwt.RegisteredClaims
}

// signer issues and verifies object access tokens.
type signer struct {
	secret []byte
	now    func() time.Time
}

func (s *signer) sign(bucket, path string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := objectClaims{
		Bucket: bucket,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   path,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign object url: %w", err)
	}
	return token, nil
}

func (s *signer) verify(bucket, path, token string) error {
	var claims objectClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.ErrSignatureExpired
		}
		return model.ErrInvalidSignature
	}
	if claims.Bucket != bucket || claims.Subject != path {
		return model.ErrInvalidSignature
	}
	return nil
}
