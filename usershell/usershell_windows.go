//go:build windows

// Package usershell reports the login shell configured for the current user.
package usershell

import "github.com/xyproto/env/v2"

// LoginShell returns the command interpreter configured for this session.
// Windows has no per-user login shell in the unix sense; the conventional
// equivalent is %COMSPEC%.
func LoginShell() (string, error) {
	return env.Str("COMSPEC", `C:\Windows\System32\cmd.exe`), nil
}
