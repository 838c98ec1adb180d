//go:build unix

// Package usershell reports the login shell configured for the current user.
package usershell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"golang.org/x/sys/unix"
)

// ErrNoShell reports that neither the user database nor the environment names
// a shell for the current user.
var ErrNoShell = errors.New("usershell: no login shell configured")

// LoginShell returns the effective user's configured login shell. The user
// database is authoritative; $SHELL covers users the local passwd file does
// not list (network accounts, directory services).
func LoginShell() (string, error) {
	if shell, err := passwdShell(unix.Geteuid()); err == nil {
		return shell, nil
	}
	if shell := env.Str("SHELL"); shell != "" {
		return shell, nil
	}
	return "", ErrNoShell
}

func passwdShell(uid int) (string, error) {
	f, err := os.Open("/etc/passwd")
	if err != nil {
		return "", fmt.Errorf("usershell: open passwd database: %w", err)
	}
	defer f.Close()

	shell, ok := parsePasswdShell(f, uid)
	if !ok {
		return "", fmt.Errorf("usershell: uid %d not in passwd database", uid)
	}
	return shell, nil
}

// parsePasswdShell scans passwd(5) lines for the entry with the given uid and
// returns its shell field.
func parsePasswdShell(r io.Reader, uid int) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:uid:gid:gecos:dir:shell
		fields := strings.Split(line, ":")
		if len(fields) < 7 {
			continue
		}
		entryUID, err := strconv.Atoi(fields[2])
		if err != nil || entryUID != uid {
			continue
		}
		if shell := strings.TrimSpace(fields[6]); shell != "" {
			return shell, true
		}
		return "", false
	}
	return "", false
}
