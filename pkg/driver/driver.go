// Package driver wires the full pipeline behind one Session type: source
// text goes through the mode-appropriate parser and the converter, then
// statement by statement through the interpreter. Object writes stage in
// an overlay and commit when the statement completes, so a failing
// statement never leaves half-applied mutations behind.
package driver

import (
	"fmt"
	"io"
	"os"

	"coral/pkg/ast"
	"coral/pkg/builtins"
	"coral/pkg/convert"
	"coral/pkg/errors"
	"coral/pkg/interp"
	"coral/pkg/lexer"
	"coral/pkg/object"
	"coral/pkg/parser/legacy"
	"coral/pkg/parser/modern"
	"coral/pkg/runtime"
	"coral/pkg/source"
)

// Mode selects the concrete syntax.
type Mode int

const (
	// Auto inspects the source: legacy terminator keywords pick the
	// legacy parser, everything else parses as modern.
	Auto Mode = iota
	Legacy
	Modern
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "legacy":
		return Legacy, nil
	case "modern":
		return Modern, nil
	}
	return Auto, fmt.Errorf("unknown syntax mode %q", s)
}

// Session owns one environment chain and a staged view of the object
// store. Sessions sharing a base store see each other's committed
// writes; uncommitted overlays stay private.
type Session struct {
	mode   Mode
	staged *object.Staged
	interp *interp.Interp
}

// NewSession creates a session over a shared base store.
func NewSession(base object.Store, cfg Config) *Session {
	staged := object.NewStaged(base)
	in := interp.New(object.NewModel(staged), builtins.Registry())
	if cfg.MaxDepth > 0 {
		in.SetMaxDepth(cfg.MaxDepth)
	}
	in.SetMaxTicks(cfg.MaxTicks)
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		mode = Auto
	}
	return &Session{mode: mode, staged: staged, interp: in}
}

// Interp exposes the session's interpreter for hosts that install extra
// builtins or a yield hook.
func (s *Session) Interp() *interp.Interp { return s.interp }

func (s *Session) SetMode(m Mode) { s.mode = m }

// Parse runs the front half of the pipeline only: lex, parse, convert.
func (s *Session) Parse(name, src string) (*ast.Program, []errors.CoralError) {
	file := source.NewFile(name, name, src)
	switch s.resolveMode(src) {
	case Legacy:
		tree, errs := legacy.Parse(file)
		if len(errs) > 0 {
			return nil, errs
		}
		return convert.Legacy(tree)
	default:
		tree, errs := modern.Parse(file)
		if len(errs) > 0 {
			return nil, errs
		}
		return convert.Modern(tree)
	}
}

// RunString parses and evaluates src, returning the value of the last
// statement. Parse and conversion diagnostics abort before any
// evaluation; an uncaught raise aborts the failing statement and
// discards its staged writes, keeping earlier statements' commits.
func (s *Session) RunString(name, src string) (runtime.Value, []errors.CoralError) {
	prog, errs := s.Parse(name, src)
	if len(errs) > 0 {
		return nil, errs
	}
	var last runtime.Value = runtime.Null{}
	for _, stmt := range prog.Statements {
		v, rerr := s.interp.RunStatement(stmt)
		if rerr != nil {
			s.staged.Discard()
			return nil, []errors.CoralError{rerr}
		}
		s.staged.Commit()
		last = v
	}
	return last, nil
}

func (s *Session) RunFile(path string) (runtime.Value, []errors.CoralError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []errors.CoralError{&errors.RuntimeError{Msg: err.Error()}}
	}
	return s.RunString(path, string(data))
}

// Incomplete reports whether src looks like the prefix of a valid unit,
// so a line front end should keep reading instead of submitting it.
func (s *Session) Incomplete(src string) bool {
	switch s.resolveMode(src) {
	case Legacy:
		return legacy.Incomplete(src)
	default:
		return modern.Incomplete(src)
	}
}

func (s *Session) resolveMode(src string) Mode {
	if s.mode != Auto {
		return s.mode
	}
	return DetectMode(src)
}

// DetectMode applies the auto heuristic: any legacy block terminator or
// except clause marks the source legacy; otherwise it is modern. Brace
// programs never contain those keywords, and keyword programs cannot
// close a block without one.
func DetectMode(src string) Mode {
	lex := lexer.New(src)
	for {
		tok := lex.NextToken()
		switch tok.Type {
		case lexer.EOF:
			return Modern
		case lexer.ENDIF, lexer.ENDWHILE, lexer.ENDFOR, lexer.ENDTRY,
			lexer.ENDVERB, lexer.ENDEVENT, lexer.ENDOBJECT, lexer.ELSEIF, lexer.EXCEPT:
			return Legacy
		}
	}
}

// DisplayResult prints an evaluation result the way the REPL shows it.
// Null results print nothing.
func DisplayResult(w io.Writer, v runtime.Value) {
	if v == nil {
		return
	}
	if _, ok := v.(runtime.Null); ok {
		return
	}
	fmt.Fprintf(w, "=> %s\n", v.Inspect())
}
