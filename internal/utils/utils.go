package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lottohaus/worldlotto-backend/internal/config"
)

// GenerateJWT issues a signed token carrying the user ID and role.
func GenerateJWT(userID string, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT parses and validates a token, returning its claims.
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateRandomString returns a URL-safe random string of the given length.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}

// ValidateNumberPick checks that numbers holds exactly count distinct
// values within [1,max].
func ValidateNumberPick(numbers []int, count, max int) error {
	if len(numbers) != count {
		return fmt.Errorf("expected %d numbers, got %d", count, len(numbers))
	}
	seen := make(map[int]bool, count)
	for _, n := range numbers {
		if n < 1 || n > max {
			return fmt.Errorf("number %d out of range 1..%d", n, max)
		}
		if seen[n] {
			return fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = true
	}
	return nil
}

// SortedCopy returns a sorted copy of the slice, leaving the input intact.
func SortedCopy(numbers []int) []int {
	c := append([]int(nil), numbers...)
	sort.Ints(c)
	return c
}

// NextDrawTime returns the next drawing instant strictly after the given
// time: the coming Tuesday or Friday at drawHour (UTC).
func NextDrawTime(after time.Time, drawHour int) time.Time {
	after = after.UTC()
	for days := 0; days <= 7; days++ {
		candidate := after.AddDate(0, 0, days)
		candidate = time.Date(candidate.Year(), candidate.Month(), candidate.Day(), drawHour, 0, 0, 0, time.UTC)
		if candidate.After(after) && (candidate.Weekday() == time.Tuesday || candidate.Weekday() == time.Friday) {
			return candidate
		}
	}
	// Unreachable: a Tuesday or Friday always occurs within 7 days.
	return after.AddDate(0, 0, 7)
}
