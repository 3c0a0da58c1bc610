package smtptransport

import (
	"fmt"
	"net/smtp"
	"strings"
)

// loginAuth implements the LOGIN SMTP auth mechanism: the server challenges
// for username and password on separate lines, each answered base64-encoded
// by the smtp client.
type loginAuth struct {
	username string
	password string
	host     string
}

func newLoginAuth(username, password, host string) smtp.Auth {
	return &loginAuth{username: username, password: password, host: host}
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if server.Name != a.host {
		return "", nil, fmt.Errorf("unexpected server name %s", server.Name)
	}
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch strings.ToLower(strings.TrimSpace(string(fromServer))) {
		case "username:", "user:":
			return []byte(a.username), nil
		case "password:", "pass:":
			return []byte(a.password), nil
		default:
			return nil, fmt.Errorf("unexpected login challenge: %s", string(fromServer))
		}
	}
	return nil, nil
}
