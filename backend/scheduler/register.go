package scheduler

import ole "github.com/go-ole/go-ole"

// registerArgs lays out the RegisterTaskDefinition parameters. User,
// password and security descriptor are empty variants, so the task runs
// with the token named by logon.
func registerArgs(name string, def interface{}, flags CreationFlags, logon LogonType) []interface{} {
	var empty ole.VARIANT
	return []interface{}{
		name,
		def,
		int32(flags),
		empty, // user
		empty, // password
		int32(logon),
		empty, // sddl
	}
}
