package http

import (
	"errors"
	"time"

	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTTokenService struct {
	secretKey  []byte
	expiration time.Duration
	logger     ports.LoggerPort
}

func NewJWTTokenService(secretKey string, durationStr string, logger ports.LoggerPort) *JWTTokenService {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		logger.Error("Invalid token duration, using default 24h", map[string]interface{}{
			"duration": durationStr,
			"error":    err.Error(),
		})
		duration = 24 * time.Hour
	}

	return &JWTTokenService{
		secretKey:  []byte(secretKey),
		expiration: duration,
		logger:     logger,
	}
}

var _ ports.TokenService = (*JWTTokenService)(nil)

func (j *JWTTokenService) CreateToken(subject string, role domain.Role) (string, error) {
	if len(j.secretKey) == 0 {
		return "", errors.New("token secret is not configured")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		j.logger.Error("Failed to generate uuid", map[string]interface{}{
			"error":   err.Error(),
			"subject": subject,
			"method":  "CreateToken",
		})
		return "", err
	}

	issuedAt := time.Now()
	expiredAt := issuedAt.Add(j.expiration)

	claims := jwt.MapClaims{
		"id":   id.String(),
		"sub":  subject,
		"role": string(role),
		"iat":  issuedAt.Unix(),
		"exp":  expiredAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

func (j *JWTTokenService) VerifyToken(token string) (domain.TokenPayload, error) {
	if len(j.secretKey) == 0 {
		return domain.TokenPayload{}, errors.New("token secret is not configured")
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		j.logger.Warn("Failed to parse jwt", map[string]interface{}{
			"error":  err.Error(),
			"method": "VerifyToken",
		})
		return domain.TokenPayload{}, err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return domain.TokenPayload{}, errors.New("failed to verify")
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return domain.TokenPayload{}, errors.New("invalid id claim")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.TokenPayload{}, errors.New("invalid parse id")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return domain.TokenPayload{}, errors.New("invalid sub claim")
	}

	roleClaimed, ok := claims["role"].(string)
	if !ok {
		return domain.TokenPayload{}, errors.New("invalid role")
	}

	role := domain.Role(roleClaimed)
	if role != domain.Admin && role != domain.Client {
		j.logger.Warn("Invalid role in token", map[string]interface{}{
			"role":   roleClaimed,
			"method": "VerifyToken",
		})
		return domain.TokenPayload{}, errors.New("invalid role value")
	}

	return domain.TokenPayload{
		ID:      id,
		Subject: subject,
		Role:    role,
	}, nil
}
