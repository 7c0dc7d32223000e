package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// SessionTokenService signs short-lived rejoin tokens so a disconnected
// player can reclaim a seat in a running game.
type SessionTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// SeatClaims is what a verified rejoin token asserts.
type SeatClaims struct {
	MatchID string
	UserID  string
	Seat    int
}

// NewSessionTokenService creates the service. A non-positive ttl defaults to
// one hour.
func NewSessionTokenService(secret, issuer string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken issues a token binding a user to a seat of a match.
func (s *SessionTokenService) GenerateToken(matchID, userID string, seat int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("session token service is nil")
	}
	if s.secret == "" {
		return "", fmt.Errorf("session token secret is not configured")
	}
	if matchID == "" || userID == "" {
		return "", fmt.Errorf("match and user are required")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"mid":  matchID,
		"seat": seat,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken parses a rejoin token and returns the seat it asserts.
func (s *SessionTokenService) VerifyToken(tokenString string) (SeatClaims, error) {
	var out SeatClaims
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return out, fmt.Errorf("invalid session token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return out, fmt.Errorf("invalid session token claims")
	}
	if s.issuer != "" {
		if iss, _ := claims["iss"].(string); iss != s.issuer {
			return out, fmt.Errorf("invalid session token issuer")
		}
	}

	out.MatchID, _ = claims["mid"].(string)
	out.UserID, _ = claims["sub"].(string)
	seat, ok := claims["seat"].(float64)
	if !ok || out.MatchID == "" || out.UserID == "" {
		return SeatClaims{}, fmt.Errorf("incomplete session token claims")
	}
	out.Seat = int(seat)
	return out, nil
}
