package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// Claims represents JWT claims
type Claims struct {
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles JWT operations
type JWTService struct {
	secret         []byte
	customerExpiry time.Duration
	employeeExpiry time.Duration
}

var (
	signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
		return token.SignedString(secret)
	}
	timeNow = time.Now
)

// NewJWTService creates a new JWT service
func NewJWTService(secret string, customerExpiry, employeeExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:         []byte(secret),
		customerExpiry: customerExpiry,
		employeeExpiry: employeeExpiry,
	}
}

// GenerateCustomerToken issues a token for a customer
func (s *JWTService) GenerateCustomerToken(username, accountNumber string) (string, error) {
	return s.generateToken(username, accountNumber, RoleCustomer, s.customerExpiry)
}

// GenerateEmployeeToken issues a token for a bank employee
func (s *JWTService) GenerateEmployeeToken(username string) (string, error) {
	return s.generateToken(username, "", RoleEmployee, s.employeeExpiry)
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(timeNow), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) generateToken(username, accountNumber, role string, expiry time.Duration) (string, error) {
	now := timeNow()
	claims := &Claims{
		Username:      username,
		AccountNumber: accountNumber,
		Role:          role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, s.secret)
}
