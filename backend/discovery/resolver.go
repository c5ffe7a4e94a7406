// Package discovery recovers COM class and interface identifiers from
// the registration database by their human readable descriptions, so
// that no identifier has to be compiled into the binary.
package discovery

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abubakar-alt/schtask/backend/guid"
	"github.com/abubakar-alt/schtask/backend/taskerr"
)

// Table is one enumerable section of the registration database, such as
// HKEY_CLASSES_ROOT\CLSID. Keys returns child key names in the order
// the database yields them. DisplayValue returns the default value of a
// child, or "" when the child has none; it fails only when the child
// itself cannot be opened.
type Table interface {
	Keys() ([]string, error)
	DisplayValue(key string) (string, error)
}

// ServiceIdentifiers names the task scheduler class and the service
// interface requested from it.
type ServiceIdentifiers struct {
	Class     guid.GUID
	Interface guid.GUID
}

// ViewIdentifiers are the interfaces queried from a generic trigger and
// a generic action to reach their logon and exec specific views.
type ViewIdentifiers struct {
	LogonTrigger guid.GUID
	ExecAction   guid.GUID
}

// Find scans table and returns the first key whose display value
// contains description. Ties are not disambiguated: the first match in
// enumeration order wins.
func Find(table Table, description string) (string, bool, error) {
	keys, err := table.Keys()
	if err != nil {
		return "", false, err
	}
	for _, key := range keys {
		value, err := table.DisplayValue(key)
		if err != nil {
			return "", false, err
		}
		if strings.Contains(value, description) {
			return key, true, nil
		}
	}
	return "", false, nil
}

// Resolver scans a class table and an interface table.
type Resolver struct {
	Classes    Table
	Interfaces Table
	Logger     *slog.Logger
}

// ResolveService returns the class whose description contains
// class and the interface whose description contains iface. The class
// table is scanned first; an interface scan only happens once the class
// was found.
func (r *Resolver) ResolveService(class, iface string) (ServiceIdentifiers, error) {
	var ids ServiceIdentifiers
	var err error
	if ids.Class, err = r.lookup(r.Classes, "class", class, "CLSID"); err != nil {
		return ServiceIdentifiers{}, err
	}
	if ids.Interface, err = r.lookup(r.Interfaces, "interface", iface, "IID"); err != nil {
		return ServiceIdentifiers{}, err
	}
	return ids, nil
}

// ResolveViews looks up the logon trigger and exec action interfaces.
func (r *Resolver) ResolveViews(logonTrigger, execAction string) (ViewIdentifiers, error) {
	var ids ViewIdentifiers
	var err error
	if ids.LogonTrigger, err = r.lookup(r.Interfaces, "interface", logonTrigger, "IID"); err != nil {
		return ViewIdentifiers{}, err
	}
	if ids.ExecAction, err = r.lookup(r.Interfaces, "interface", execAction, "IID"); err != nil {
		return ViewIdentifiers{}, err
	}
	return ids, nil
}

func (r *Resolver) lookup(table Table, tableName, description, idName string) (guid.GUID, error) {
	if table == nil {
		return guid.GUID{}, &taskerr.Error{Kind: taskerr.Lookup, Op: tableName, Msg: fmt.Sprintf("%s table unavailable", tableName)}
	}
	key, found, err := Find(table, description)
	if err != nil {
		return guid.GUID{}, &taskerr.Error{Kind: taskerr.Lookup, Op: tableName, Err: err}
	}
	if !found {
		return guid.GUID{}, &taskerr.Error{Kind: taskerr.Lookup, Op: tableName, Msg: fmt.Sprintf("%s %s not found", description, idName)}
	}
	id, err := guid.Parse(key)
	if err != nil {
		return guid.GUID{}, &taskerr.Error{Kind: taskerr.Lookup, Op: tableName, Err: err}
	}
	if r.Logger != nil {
		r.Logger.Debug("identifier resolved",
			"table", tableName,
			"description", description,
			"key", key,
		)
	}
	return id, nil
}
