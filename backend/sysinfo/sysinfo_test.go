package sysinfo

import "testing"

func TestCurrentIdentity(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "both set", env: map[string]string{"USERDOMAIN": "CORP", "USERNAME": "alice"}, want: `CORP\alice`},
		{name: "nothing set", env: map[string]string{}, want: `.\SYSTEM`},
		{name: "domain missing", env: map[string]string{"USERNAME": "bob"}, want: `.\bob`},
		{name: "username missing", env: map[string]string{"USERDOMAIN": "WORKGROUP"}, want: `WORKGROUP\SYSTEM`},
		{name: "empty values are kept", env: map[string]string{"USERDOMAIN": "", "USERNAME": ""}, want: `\`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := test.env[key]
				return v, ok
			}
			if got := CurrentIdentity(lookup).UserID(); got != test.want {
				t.Errorf("UserID() = %q, want %q", got, test.want)
			}
		})
	}
}
