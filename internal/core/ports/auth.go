package ports

import (
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"
)

type TokenService interface {
	CreateToken(subject string, role domain.Role) (string, error)
	VerifyToken(token string) (domain.TokenPayload, error)
}
