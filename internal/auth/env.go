package auth

import "context"

// envProvider returns the credentials captured from the process environment.
type envProvider struct {
	user string
	key  string
}

func (p *envProvider) Acquire(_ context.Context) (Credentials, error) {
	if p.user == "" || p.key == "" {
		return Credentials{}, ErrNoCredentials
	}
	return Credentials{User: p.user, Key: p.key}, nil
}
