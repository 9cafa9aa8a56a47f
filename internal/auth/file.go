package auth

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// fileProvider reads credentials from a dotfile. The format is a single
// "user:password" line; blank lines and '#' comments are ignored.
type fileProvider struct {
	path string
}

func (p *fileProvider) Acquire(_ context.Context) (Credentials, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return Credentials{}, fmt.Errorf("open credentials file %q: %w", p.path, err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, key, ok := strings.Cut(line, ":")
		user, key = strings.TrimSpace(user), strings.TrimSpace(key)
		if !ok || user == "" || key == "" {
			return Credentials{}, fmt.Errorf("credentials file %q: want a user:password line", p.path)
		}
		return Credentials{User: user, Key: key}, nil
	}
	if err := sc.Err(); err != nil {
		return Credentials{}, fmt.Errorf("read credentials file %q: %w", p.path, err)
	}
	return Credentials{}, ErrNoCredentials
}
