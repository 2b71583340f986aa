package http

import (
	"github.com/google/uuid"
)

// UserInfoDTO represents a lightweight profile reference in responses.
type UserInfoDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

func toUserInfoDTO(id uuid.UUID, fullName string) UserInfoDTO {
	return UserInfoDTO{
		ID:       id.String(),
		FullName: fullName,
	}
}

// optionalUserInfo returns nil when no profile is referenced.
func optionalUserInfo(id *uuid.UUID, fullName string) *UserInfoDTO {
	if id == nil {
		return nil
	}
	info := toUserInfoDTO(*id, fullName)
	return &info
}
