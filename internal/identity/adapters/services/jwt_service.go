package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"conduit/internal/identity/domain/services"
	svc "conduit/internal/identity/ports/services"
	"conduit/pkg/logger"
)

const (
	methodGenerateAccessToken = "GenerateAccessToken"
	methodValidateAccessToken = "ValidateAccessToken"
	msgGeneratingAccessToken  = "generating access token"
	msgValidatingToken        = "validating token"
	msgTokenGenerated         = "token generated successfully"
	msgTokenValidated         = "token validated successfully"
	msgInvalidToken           = "invalid token"
	msgTokenExpired           = "token has expired"
	msgEmptySecret            = "empty secret key provided"
	//nolint:gosec
	errSigningToken       = "error signing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
	errCtxValidatingToken = "validating token"
)

// ErrInvalidAlgorithm - токен подписан не HMAC.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - claims токена в формате библиотеки JWT. Subject всегда равен UserID.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ServiceJWT выпускает HS256 токены.
type ServiceJWT struct {
	config services.JWTConfig
	now    func() time.Time
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, tokenTTL time.Duration, issuer string) svc.TokenService {
	return &ServiceJWT{
		config: services.JWTConfig{
			SecretKey: []byte(secretKey),
			TokenTTL:  tokenTTL,
			Issuer:    issuer,
		},
		now: time.Now,
	}
}

func domainToJWTClaims(claims services.JWTClaims, issuer string) Claims {
	return Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.UserID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
		},
	}
}

// GenerateAccessToken подписывает токен, subject которого - ID пользователя.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.String("userID", userID),
	)
	log.Debug(ctx, msgGeneratingAccessToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%s: %w: empty user id", errCtxGeneratingToken, services.ErrGeneratingJWTToken)
	}

	now := s.now()
	expiresAt := now.Add(s.config.TokenTTL)

	jwtClaims := domainToJWTClaims(services.JWTClaims{
		UserID:    userID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, s.config.Issuer)

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims).SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// ValidateAccessToken проверяет подпись и срок действия и возвращает ID пользователя.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateAccessToken))
	log.Debug(ctx, msgValidatingToken)

	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.config.SecretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return "", fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, msgInvalidToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w: %w", errCtxParsingToken, services.ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Subject != claims.UserID {
		log.Debug(ctx, msgInvalidToken)
		return "", fmt.Errorf("%s: %w", errCtxValidatingToken, services.ErrInvalidJWTToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.Subject))
	return claims.Subject, nil
}
