package domain

import (
	"github.com/google/uuid"
)

type Role string

const (
	Admin  Role = "admin"
	Client Role = "client"
)

type TokenPayload struct {
	ID      uuid.UUID
	Subject string
	Role    Role
}
