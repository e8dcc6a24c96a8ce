// Package invite issues and verifies helper invitation tokens.
//
// Tokens are EdDSA-signed JWTs binding one calendar id to one invited email
// address, with a bounded lifetime. They are ephemeral: nothing is persisted
// and replay of an unexpired token is resolved idempotently by the workflow.
package invite

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
	"github.com/calshare/calshare/internal/platform/id"
)

const defaultTTL = 72 * time.Hour

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer     string        `env:"CALSHARE_INVITE_ISSUER"`
	Audience   string        `env:"CALSHARE_INVITE_AUDIENCE"`
	PrivateKey string        `env:"CALSHARE_INVITE_PRIVATE_KEY"`
	PublicKey  string        `env:"CALSHARE_INVITE_PUBLIC_KEY"`
	TTL        time.Duration `env:"CALSHARE_INVITE_TTL" envDefault:"72h"`
}

// Config defines how invitation tokens are signed and verified.
type Config struct {
	Issuer     string
	Audience   string
	TTL        time.Duration
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	Now        func() time.Time
}

// Claims captures the validated claim set of one invitation token.
type Claims struct {
	CalendarID   string
	InvitedEmail string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	JWTID        string
}

// tokenClaims is the internal claims type used for JWT parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	CalendarID   string `json:"calendar_id"`
	InvitedEmail string `json:"invited_email"`
}

// LoadConfigFromEnv reads invitation token configuration.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse invite token env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	privateKey := strings.TrimSpace(raw.PrivateKey)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("CALSHARE_INVITE_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("CALSHARE_INVITE_AUDIENCE is required")
	}
	if privateKey == "" {
		return Config{}, fmt.Errorf("CALSHARE_INVITE_PRIVATE_KEY is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("CALSHARE_INVITE_PUBLIC_KEY is required")
	}
	privateBytes, err := decodeBase64(privateKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode invite private key: %w", err)
	}
	if len(privateBytes) != ed25519.PrivateKeySize {
		return Config{}, fmt.Errorf("invite private key must be %d bytes", ed25519.PrivateKeySize)
	}
	publicBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode invite public key: %w", err)
	}
	if len(publicBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("invite public key must be %d bytes", ed25519.PublicKeySize)
	}
	ttl := raw.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:     issuer,
		Audience:   audience,
		TTL:        ttl,
		PrivateKey: ed25519.PrivateKey(privateBytes),
		PublicKey:  ed25519.PublicKey(publicBytes),
		Now:        now,
	}, nil
}

// Service signs and verifies invitation tokens against one Config.
type Service struct {
	cfg Config
}

// NewService constructs a token service from cfg.
func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("invite token issuer is required")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("invite token audience is required")
	}
	if len(cfg.PrivateKey) != 0 && len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invite private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if len(cfg.PublicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invite public key must be %d bytes", ed25519.PublicKeySize)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg}, nil
}

// Issue signs a new invitation token binding calendarID to invitedEmail.
func (s *Service) Issue(calendarID string, invitedEmail string) (string, error) {
	calendarID = strings.TrimSpace(calendarID)
	invitedEmail = strings.TrimSpace(invitedEmail)
	if calendarID == "" {
		return "", errors.New("calendar id is required")
	}
	if invitedEmail == "" {
		return "", errors.New("invited email is required")
	}
	if len(s.cfg.PrivateKey) != ed25519.PrivateKeySize {
		return "", errors.New("invite token signer is not configured")
	}

	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate invite token id: %w", err)
	}

	now := s.cfg.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			ID:        jti,
		},
		CalendarID:   calendarID,
		InvitedEmail: invitedEmail,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(s.cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign invite token: %w", err)
	}
	return signed, nil
}

// Verify parses one invitation token and validates its signature, issuer,
// audience, lifetime, and claim completeness. Failures are reported as
// Unauthorized domain errors.
func (s *Service) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthorized, "invite token is required")
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return s.cfg.PublicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != s.cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeUnauthorized,
			"invite token issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, s.cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeUnauthorized,
			"invite token audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeUnauthorized, "invite token exp is required")
	}

	now := s.cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeUnauthorized, "invite token is expired")
	}

	if strings.TrimSpace(parsed.CalendarID) == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthorized, "invite token calendar claim is missing")
	}
	if strings.TrimSpace(parsed.InvitedEmail) == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthorized, "invite token email claim is missing")
	}

	claims := Claims{
		CalendarID:   parsed.CalendarID,
		InvitedEmail: parsed.InvitedEmail,
		ExpiresAt:    exp,
		JWTID:        parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthorized, "invite token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthorized, "invite token alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthorized, "invite token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
