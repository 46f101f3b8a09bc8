package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT custom claims
type Claims struct {
	StudentID uuid.UUID `json:"student_id"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}
