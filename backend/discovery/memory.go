package discovery

import "fmt"

// MemoryTable is an ordered in-memory Table. Entries are enumerated in
// insertion order.
type MemoryTable struct {
	keys    []string
	values  map[string]string
	broken  map[string]bool
	KeysErr error
}

// NewMemoryTable returns an empty table.
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{
		values: make(map[string]string),
		broken: make(map[string]bool),
	}
}

// Add appends an entry with the given default value.
func (m *MemoryTable) Add(key, value string) *MemoryTable {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// AddUnreadable appends an entry that fails to open.
func (m *MemoryTable) AddUnreadable(key string) *MemoryTable {
	m.Add(key, "")
	m.broken[key] = true
	return m
}

func (m *MemoryTable) Keys() ([]string, error) {
	if m.KeysErr != nil {
		return nil, m.KeysErr
	}
	return append([]string(nil), m.keys...), nil
}

func (m *MemoryTable) DisplayValue(key string) (string, error) {
	value, ok := m.values[key]
	if !ok || m.broken[key] {
		return "", fmt.Errorf("open %s: access denied", key)
	}
	return value, nil
}
