// Package auth issues and verifies the HS256 session tokens handed to
// clients after signup and login.
package auth

import (
	"errors"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultValidity is the lifetime of a session token.
const DefaultValidity = 7 * 24 * time.Hour

// Claims carries the account identity. Expiry and issue time live in the
// registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string      `json:"id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
}

// Issuer signs and verifies session tokens with a shared HMAC secret.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Issuer{secret: secret, validity: validity, now: time.Now}
}

// Issue returns a signed token for account, valid from now until now+validity.
func (i *Issuer) Issue(account *models.Account) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// claims. Expired tokens yield common.ErrTokenExpired; any other failure
// yields common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
