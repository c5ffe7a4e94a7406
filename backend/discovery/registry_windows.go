//go:build windows

package discovery

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	classesPath    = `CLSID`
	interfacesPath = `Interface`
)

// RegistryTable enumerates one subtree of HKEY_CLASSES_ROOT.
type RegistryTable struct {
	root registry.Key
	path string
}

// NewRegistryTables returns the CLSID and Interface tables of
// HKEY_CLASSES_ROOT.
func NewRegistryTables() (classes, interfaces Table, err error) {
	return &RegistryTable{root: registry.CLASSES_ROOT, path: classesPath},
		&RegistryTable{root: registry.CLASSES_ROOT, path: interfacesPath},
		nil
}

func (r *RegistryTable) Keys() ([]string, error) {
	k, err := registry.OpenKey(r.root, r.path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", r.path, err)
	}
	return names, nil
}

func (r *RegistryTable) DisplayValue(key string) (string, error) {
	k, err := registry.OpenKey(r.root, r.path+`\`+key, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open %s\\%s: %w", r.path, key, err)
	}
	defer k.Close()

	// A missing or non-string default value reads as empty.
	value, _, err := k.GetStringValue("")
	if err != nil {
		return "", nil
	}
	return value, nil
}
