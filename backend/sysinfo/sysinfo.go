// Package sysinfo reads the identity of the interactive user from the
// process environment.
package sysinfo

import "os"

const (
	DefaultDomain   = "."
	DefaultUsername = "SYSTEM"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Identity is the logon identity a trigger fires for.
type Identity struct {
	Domain   string
	Username string
}

// CurrentIdentity reads USERDOMAIN and USERNAME through lookup,
// defaulting unset values to "." and "SYSTEM".
func CurrentIdentity(lookup LookupFunc) Identity {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	id := Identity{Domain: DefaultDomain, Username: DefaultUsername}
	if v, ok := lookup("USERDOMAIN"); ok {
		id.Domain = v
	}
	if v, ok := lookup("USERNAME"); ok {
		id.Username = v
	}
	return id
}

// UserID renders the identity as DOMAIN\user.
func (id Identity) UserID() string {
	return id.Domain + `\` + id.Username
}
