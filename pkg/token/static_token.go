package token

import "strings"

// StaticToken is a TokenProvider wrapper for a static token. An empty
// token means requests are sent without credentials.
type StaticToken struct {
	token string
}

func NewStaticToken(token string) (*StaticToken, error) {
	return &StaticToken{token: strings.TrimSpace(token)}, nil
}

func (t *StaticToken) Token() string {
	return t.token
}
