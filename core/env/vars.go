package env

import "strings"

// IsName reports whether s is a valid variable name.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Assignment is a parsed NAME=VALUE or NAME+=VALUE word.
type Assignment struct {
	Name   string
	Value  string
	Append bool
}

// ParseAssignment splits word into an assignment. It returns false if the
// part before the equals sign isn't a valid name.
func ParseAssignment(word string) (Assignment, bool) {
	idx := strings.IndexByte(word, '=')
	if idx < 0 {
		return Assignment{}, false
	}
	out := Assignment{Name: word[:idx], Value: word[idx+1:]}
	if strings.HasSuffix(out.Name, "+") {
		out.Name = strings.TrimSuffix(out.Name, "+")
		out.Append = true
	}
	if !IsName(out.Name) {
		return Assignment{}, false
	}
	return out, true
}

// Vars is the shell's variable state: exported (global) variables passed to
// children and unexported (local) shell variables.
//
// A key lives in at most one of the two stores. Lookups consult Local first,
// then Global.
type Vars struct {
	Global *Store
	Local  *Store
}

// NewVars creates variables with environ as the exported set.
func NewVars(environ []string) *Vars {
	return &Vars{
		Global: NewStoreFromEnvList(environ),
		Local:  NewStore(),
	}
}

// Lookup resolves key against the local store, then the global store.
func (v *Vars) Lookup(key string) (string, bool) {
	if val, ok := v.Local.Lookup(key); ok {
		return val, true
	}
	return v.Global.Lookup(key)
}

// Getenv resolves key or returns the empty string.
func (v *Vars) Getenv(key string) string {
	val, _ := v.Lookup(key)
	return val
}

// Assign sets a shell variable. Exported variables keep their exported status,
// anything else is stored locally.
func (v *Vars) Assign(a Assignment) {
	target := v.Local
	if v.Global.Has(a.Name) {
		target = v.Global
	}
	value := a.Value
	if a.Append {
		value = target.Get(a.Name) + value
	}
	target.Set(a.Name, value)
}

// Setenv sets an exported variable, removing any local copy.
func (v *Vars) Setenv(key, value string) {
	v.Local.Unset(key)
	v.Global.Set(key, value)
}

// Export marks a variable as exported. With a value it behaves like an
// assignment into the global store; without one it promotes an existing local
// variable. Exporting an unknown name without a value is a no-op.
func (v *Vars) Export(a Assignment, hasValue bool) {
	local, isLocal := v.Local.Lookup(a.Name)
	if !hasValue {
		if isLocal {
			v.Local.Unset(a.Name)
			v.Global.Set(a.Name, local)
		}
		return
	}

	value := a.Value
	if a.Append {
		old, _ := v.Lookup(a.Name)
		value = old + value
	}
	v.Setenv(a.Name, value)
}

// Unset removes key from whichever store holds it.
func (v *Vars) Unset(key string) {
	v.Local.Unset(key)
	v.Global.Unset(key)
}

// Merged returns the combined view: global keys in order followed by local
// keys in order.
func (v *Vars) Merged() []string {
	return append(v.Global.Environ(), v.Local.Environ()...)
}

// Clone makes a deep copy.
func (v *Vars) Clone() *Vars {
	return &Vars{
		Global: v.Global.Clone(),
		Local:  v.Local.Clone(),
	}
}
