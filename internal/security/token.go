package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeCandidateScheduling TokenType = "candidate_scheduling"
)

// SchedulingClaims carries the candidate identity inside a self-scheduling
// link. The link is long-lived (days), unlike offer tokens (minutes).
type SchedulingClaims struct {
	CandidateID int32     `json:"candidate_id"`
	Type        TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateSchedulingToken(candidateID int32, validity time.Duration) (string, error)
	ValidateSchedulingToken(tokenString string) (*SchedulingClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateSchedulingToken(candidateID int32, validity time.Duration) (string, error) {
	claims := SchedulingClaims{
		CandidateID: candidateID,
		Type:        TokenTypeCandidateScheduling,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(candidateID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "scheduling-service",
			Audience:  jwt.ClaimStrings{"candidate-scheduling"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateSchedulingToken(tokenString string) (*SchedulingClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SchedulingClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SchedulingClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeCandidateScheduling {
		return nil, ErrWrongTokenType
	}
	if claims.CandidateID == 0 && claims.Subject != "" {
		cid, _ := strconv.Atoi(claims.Subject)
		claims.CandidateID = int32(cid)
	}
	return claims, nil
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
