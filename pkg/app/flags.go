package app

import (
	"github.com/spf13/pflag"
)

// NamedFlagSets stores named flag sets in the order they were registered,
// so help output groups flags per component (http, mqtt, source, log, ...).
type NamedFlagSets struct {
	// Order is an ordered list of flag set names.
	Order []string

	// FlagSets stores the flag sets by name.
	FlagSets map[string]*pflag.FlagSet
}

// FlagSet returns the flag set with the given name, creating it if needed.
func (nfs *NamedFlagSets) FlagSet(name string) *pflag.FlagSet {
	if nfs.FlagSets == nil {
		nfs.FlagSets = map[string]*pflag.FlagSet{}
	}
	if _, ok := nfs.FlagSets[name]; !ok {
		nfs.FlagSets[name] = pflag.NewFlagSet(name, pflag.ExitOnError)
		nfs.Order = append(nfs.Order, name)
	}
	return nfs.FlagSets[name]
}

// NamedFlagSetOptions abstracts the full option set of a binary.
type NamedFlagSetOptions interface {
	// Flags returns the flags of the binary, grouped by component.
	Flags() NamedFlagSets

	// Complete fills in any fields not set that are required to have valid data.
	Complete() error

	// Validate checks all the completed options.
	Validate() error
}
