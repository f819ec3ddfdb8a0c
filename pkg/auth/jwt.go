package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
)

// Claims are the JWT claims carried by customer access tokens. The subject
// is the customer username.
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates bearer tokens. Two kinds of tokens are
// accepted: HS256 JWTs issued at login, and a static admin token configured
// per deployment for operational endpoints.
type Authenticator struct {
	secret     []byte
	adminToken []byte
	expiry     time.Duration
	issuer     string
}

// NewAuthenticator creates an authenticator. adminToken may be empty, in
// which case only JWTs are accepted.
func NewAuthenticator(secret, adminToken string, expiry time.Duration) *Authenticator {
	return &Authenticator{
		secret:     []byte(secret),
		adminToken: []byte(adminToken),
		expiry:     expiry,
		issuer:     "customer-service",
	}
}

// GenerateToken creates a signed JWT for the given username.
func (a *Authenticator) GenerateToken(username string, isAdmin bool) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
			Issuer:    a.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// Validate checks a bearer token and returns the caller identity. The
// static admin token is compared in constant time before JWT parsing is
// attempted.
func (a *Authenticator) Validate(tokenString string) (*middleware.Identity, error) {
	if len(a.adminToken) > 0 &&
		subtle.ConstantTimeCompare([]byte(tokenString), a.adminToken) == 1 {
		return &middleware.Identity{IsAdmin: true}, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return &middleware.Identity{
		Username: claims.Subject,
		IsAdmin:  claims.IsAdmin,
	}, nil
}
