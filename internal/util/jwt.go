package util

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// urutan claim yang dicoba untuk id user; token bisa datang dari issuer berbeda.
var userIDClaims = []string{"uid", "user_id", "sub", "id"}

// ParseAccessToken verifikasi token HS256 dan ambil id user dari claim-nya.
func ParseAccessToken(secret, tokenStr string) (string, error) {
	if secret == "" {
		return "", ErrInvalidToken
	}
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	for _, key := range userIDClaims {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return strconv.FormatInt(int64(v), 10), nil
		}
	}
	return "", ErrInvalidToken
}
