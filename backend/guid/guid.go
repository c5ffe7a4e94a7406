// Package guid parses the textual identifiers found as key names in the
// Windows registration database.
package guid

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// GUID has the in-memory layout of a COM GUID.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Parse converts "{XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX}" (braces
// optional) into a GUID.
//
// The trailing group must be exactly 12 characters long, but each of
// its byte pairs is decoded on its own and a malformed pair becomes 0
// rather than failing the parse.
func Parse(s string) (GUID, error) {
	s = strings.Trim(s, "{}")

	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return GUID{}, formatError("Invalid GUID format")
	}

	var g GUID

	d1, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return GUID{}, formatError("Failed to parse Data1")
	}
	g.Data1 = uint32(d1)

	d2, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return GUID{}, formatError("Failed to parse Data2")
	}
	g.Data2 = uint16(d2)

	d3, err := strconv.ParseUint(parts[2], 16, 16)
	if err != nil {
		return GUID{}, formatError("Failed to parse Data3")
	}
	g.Data3 = uint16(d3)

	b, ok := hexByte(parts[3], 0)
	if !ok {
		return GUID{}, formatError("Failed to parse Data4[0]")
	}
	g.Data4[0] = b
	b, ok = hexByte(parts[3], 2)
	if !ok {
		return GUID{}, formatError("Failed to parse Data4[1]")
	}
	g.Data4[1] = b

	last := parts[4]
	if len(last) != 12 {
		return GUID{}, formatError("Invalid Data4 format")
	}
	for i := 0; i < 6; i++ {
		g.Data4[2+i], _ = hexByte(last, i*2)
	}

	return g, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic("guid: " + err.Error())
	}
	return g
}

// String renders g the way registry key names spell it, upper case and
// in braces.
func (g GUID) String() string {
	return "{" + strings.ToUpper(g.UUID().String()) + "}"
}

// UUID returns g in RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:], g.Data4[:])
	return u
}

// FromUUID is the inverse of GUID.UUID.
func FromUUID(u uuid.UUID) GUID {
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:])
	return g
}

// IsZero reports whether g is the nil GUID.
func (g GUID) IsZero() bool {
	return g == GUID{}
}

func hexByte(s string, at int) (byte, bool) {
	if len(s) < at+2 {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+2], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

func formatError(msg string) error {
	return &taskerr.Error{Kind: taskerr.Format, Op: "parse", Msg: msg}
}
