//go:build !windows

package discovery

import "errors"

// NewRegistryTables is only available on Windows.
func NewRegistryTables() (classes, interfaces Table, err error) {
	return nil, nil, errors.New("registration database is only available on windows")
}
