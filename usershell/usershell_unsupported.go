//go:build !unix && !windows

// Package usershell reports the login shell configured for the current user.
package usershell

import "errors"

func LoginShell() (string, error) {
	return "", errors.New("usershell: no user database on this platform")
}
