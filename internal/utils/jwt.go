package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT carrying the admin and their business.
func GenerateToken(secret string, userID, businessID uuid.UUID, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID:     userID.String(),
		BusinessID: businessID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded user and business IDs.
func ParseToken(secret, tokenString string) (uuid.UUID, uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		businessID, err := uuid.Parse(claims.BusinessID)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		return userID, businessID, nil
	}

	return uuid.Nil, uuid.Nil, jwt.ErrTokenInvalidClaims
}
