// Package auth reproduces the flat credential check of the source
// system: a plaintext-comparable credential matched by string
// equality, plus an optional master password that opens any account.
// There is no hashing, rate limiting, or lockout; the record set is a
// shared spreadsheet and this mirrors its trust model.
package auth

import (
	"strings"

	"nomina/internal/core"
)

// Authenticate matches the presented credentials against the user set.
// It fails with core.ErrUserNotFound when no user has the login
// handle, and with core.ErrInvalidCredential when the handle matches
// but the credential does not. An empty masterPassword disables the
// master override.
func Authenticate(username, password string, users []core.User, masterPassword string) (core.User, error) {
	handle := strings.TrimSpace(username)
	for _, u := range users {
		if u.Username != handle {
			continue
		}
		if u.Password == password {
			return u, nil
		}
		if masterPassword != "" && password == masterPassword {
			return u, nil
		}
		return core.User{}, core.ErrInvalidCredential
	}
	return core.User{}, core.ErrUserNotFound
}
