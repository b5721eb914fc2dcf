package runtime

// ErrCode tags an error value with its kind. The codes are values in the
// language: they can be compared, stored in properties and caught.
type ErrCode string

const (
	ETYPE   ErrCode = "E_TYPE"   // type mismatch in an operator or call
	EDIV    ErrCode = "E_DIV"    // division or modulo by zero
	EVARNF  ErrCode = "E_VARNF"  // undefined variable
	EPROPNF ErrCode = "E_PROPNF" // undefined property
	EVERBNF ErrCode = "E_VERBNF" // undefined verb
	EPERM   ErrCode = "E_PERM"   // permission denied
	EARGS   ErrCode = "E_ARGS"   // arity or argument shape mismatch
	ECONST  ErrCode = "E_CONST"  // reassignment of a const binding
	EMAXREC ErrCode = "E_MAXREC" // recursion or loop-iteration limit
	ERANGE  ErrCode = "E_RANGE"  // index out of range
	EINVARG ErrCode = "E_INVARG" // invalid argument value
	ERECMOV ErrCode = "E_RECMOV" // parent assignment would create a cycle
	ENONE   ErrCode = "E_NONE"   // no error; the zero error value
)

// NewErr builds an error value.
func NewErr(code ErrCode, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// ErrByName maps the spelling used in source (e.g. a caught value compared
// against E_TYPE) back to its code. Returns ENONE when unknown.
func ErrByName(name string) (ErrCode, bool) {
	switch name {
	case "E_TYPE":
		return ETYPE, true
	case "E_DIV":
		return EDIV, true
	case "E_VARNF":
		return EVARNF, true
	case "E_PROPNF":
		return EPROPNF, true
	case "E_VERBNF":
		return EVERBNF, true
	case "E_PERM":
		return EPERM, true
	case "E_ARGS":
		return EARGS, true
	case "E_CONST":
		return ECONST, true
	case "E_MAXREC":
		return EMAXREC, true
	case "E_RANGE":
		return ERANGE, true
	case "E_INVARG":
		return EINVARG, true
	case "E_RECMOV":
		return ERECMOV, true
	case "E_NONE":
		return ENONE, true
	}
	return ENONE, false
}
