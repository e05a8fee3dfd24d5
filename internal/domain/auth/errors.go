package auth

import "errors"

// Auth collaborator errors. Token issuance lives elsewhere; the backend only
// verifies claims, so only verification failures are modeled here.
var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
