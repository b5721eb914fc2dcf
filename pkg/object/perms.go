package object

import (
	"fmt"
	"strings"

	"coral/pkg/runtime"
)

// Checker gates member access. The model consults it on every resolve;
// a denial surfaces as E_PERM carrying the checker's reason. definer is
// the object the member is defined on, which may be an ancestor of the
// object asked.
type Checker interface {
	CanRead(definer runtime.Obj, name, perms string) (bool, string)
	CanWrite(definer runtime.Obj, name, perms string) (bool, string)
	CanExecute(definer runtime.Obj, name, perms string) (bool, string)
}

// AllowAll ignores permission bits entirely. It is the default for the
// REPL and tests.
type AllowAll struct{}

func (AllowAll) CanRead(runtime.Obj, string, string) (bool, string)    { return true, "" }
func (AllowAll) CanWrite(runtime.Obj, string, string) (bool, string)   { return true, "" }
func (AllowAll) CanExecute(runtime.Obj, string, string) (bool, string) { return true, "" }

// FlagChecker enforces the declared bits: properties need r to read and
// w to write, verbs need x to run.
type FlagChecker struct{}

func (FlagChecker) CanRead(_ runtime.Obj, _ string, perms string) (bool, string) {
	return hasBit(perms, 'r')
}

func (FlagChecker) CanWrite(_ runtime.Obj, _ string, perms string) (bool, string) {
	return hasBit(perms, 'w')
}

func (FlagChecker) CanExecute(_ runtime.Obj, _ string, perms string) (bool, string) {
	return hasBit(perms, 'x')
}

func hasBit(perms string, bit rune) (bool, string) {
	if strings.ContainsRune(perms, bit) {
		return true, ""
	}
	return false, fmt.Sprintf("permissions %q lack the %c bit", perms, bit)
}
