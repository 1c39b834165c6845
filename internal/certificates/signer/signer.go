// Package signer serializes a resolved certificate into an integrity
// protected token. The rendering service verifies the signature with the
// shared secret before drawing anything.
package signer

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gala/internal/certificates/models"
	dErrors "gala/pkg/domain-errors"
)

// Claims carries every resolved certificate field the renderer needs. Field
// names follow the rendering service contract.
type Claims struct {
	Recipient             string           `json:"recipient"`
	RecipientDescription  string           `json:"recipientDescription"`
	IssuerName            string           `json:"issuer"`
	IssuerDescription     string           `json:"issuerDescription"`
	IssuedFor             string           `json:"issuedFor"`
	IssuedForDescription  string           `json:"issuedForDescription"`
	CertificateElements   []models.Element `json:"certificateElements"`
	Height                int              `json:"height"`
	Width                 int              `json:"width"`
	Fonts                 []string         `json:"fonts,omitempty"`
	CertificateBackground string           `json:"certificateBackground,omitempty"`
	CertificateID         string           `json:"id"`
	jwt.RegisteredClaims
}

// Signer signs certificate tokens with a server-held secret. The secret is
// injected at construction; there is no ambient fallback.
type Signer struct {
	signingKey []byte
	issuer     string
}

// New constructs a Signer.
func New(secret string, issuer string) *Signer {
	return &Signer{signingKey: []byte(secret), issuer: issuer}
}

// Sign produces the opaque token for one resolved certificate.
func (s *Signer) Sign(resolved models.ResolvedCertificate) (string, error) {
	issuer := resolved.Issuer
	if issuer == "" {
		issuer = s.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Recipient:             resolved.Recipient,
		RecipientDescription:  resolved.RecipientDescription,
		IssuerName:            issuer,
		IssuerDescription:     resolved.IssuerDescription,
		IssuedFor:             resolved.IssuedFor.String(),
		IssuedForDescription:  resolved.IssuedForDescription,
		CertificateElements:   resolved.Elements,
		Height:                resolved.Height,
		Width:                 resolved.Width,
		Fonts:                 resolved.Fonts,
		CertificateBackground: resolved.Background,
		CertificateID:         resolved.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   s.issuer,
			ID:       resolved.ID,
		},
	})
	return token.SignedString(s.signingKey)
}

// Verify parses and validates a signed token. Used by tests standing in for
// the rendering service.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid certificate token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid certificate token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}
