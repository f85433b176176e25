// Package auth implements the admin gate. It is a workflow switch, not a security
// boundary: the shared password lives in configuration in plain text, and Admin is
// an exported value, so any code in the module can construct the role without
// calling Gate.Login. Only the operator-facing entry points (CLI and shell) go
// through the gate.
package auth

import (
	"crypto/subtle"
	"errors"
)

// Role is the capability presented to mutating store operations.
type Role int

const (
	Viewer Role = iota
	Admin
)

var ErrBadPassword = errors.New("incorrect password")

func (r Role) String() string {
	if r == Admin {
		return "admin"
	}
	return "viewer"
}

func (r Role) IsAdmin() bool {
	return r == Admin
}

// Gate compares operator input with the configured shared password.
type Gate struct {
	password []byte
}

func NewGate(password string) *Gate {
	return &Gate{password: []byte(password)}
}

// Login returns Admin when password matches, Viewer and ErrBadPassword otherwise.
// An unconfigured gate never grants Admin.
func (g *Gate) Login(password string) (Role, error) {
	if len(g.password) == 0 {
		return Viewer, ErrBadPassword
	}
	if subtle.ConstantTimeCompare(g.password, []byte(password)) != 1 {
		return Viewer, ErrBadPassword
	}
	return Admin, nil
}
