package app

import "pdfchat/internal/model"

// RoleForUserCount is the promotion policy for new signups: the very first
// user registered becomes admin, everyone after is a regular user.
func RoleForUserCount(existing int64) model.Role {
	if existing == 0 {
		return model.RoleAdmin
	}
	return model.RoleUser
}
