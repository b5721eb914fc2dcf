package interp

import (
	"coral/pkg/ast"
	"coral/pkg/object"
	"coral/pkg/runtime"
)

// evalObjectDef creates or updates the named object, installs its
// members, and publishes it as $name on the system object. Redefining an
// existing object keeps its id and replaces the listed members only.
func (i *Interp) evalObjectDef(def *ast.ObjectDef, env *runtime.Environment) (runtime.Value, error) {
	parent, err := i.resolveParent(def, env)
	if err != nil {
		return nil, err
	}

	id, exists := i.model.FindByName(def.Name)
	if exists {
		cur, rerr := i.model.Parent(id)
		if rerr != nil {
			return nil, i.raise(def.Span(), rerr)
		}
		if cur != parent {
			if rerr := i.model.ChangeParent(id, parent); rerr != nil {
				return nil, i.raise(def.Span(), rerr)
			}
		}
	} else {
		var rerr *runtime.Err
		id, rerr = i.model.Create(parent)
		if rerr != nil {
			return nil, i.raise(def.Span(), rerr)
		}
		if rerr := i.model.SetName(id, def.Name); rerr != nil {
			return nil, i.raise(def.Span(), rerr)
		}
	}

	for _, m := range def.Members {
		switch member := m.(type) {
		case ast.PropertyMember:
			value, err := i.evalExpr(member.Value, env)
			if err != nil {
				return nil, err
			}
			perms := member.Perms
			if perms == "" {
				perms = "rw"
			}
			if rerr := i.model.DefineProperty(id, member.Name, value, perms); rerr != nil {
				return nil, i.raise(def.Span(), rerr)
			}
		case ast.VerbMember:
			perms := member.Perms
			if perms == "" {
				perms = "rx"
			}
			verb := object.Verb{
				Names:  member.Names,
				Params: member.Params,
				Body:   member.Body,
				Perms:  perms,
			}
			if rerr := i.model.DefineVerb(id, verb); rerr != nil {
				return nil, i.raise(def.Span(), rerr)
			}
		case ast.EventMember:
			ev := object.Event{
				Name:   member.Name,
				Params: member.Params,
				Body:   member.Body,
			}
			if rerr := i.model.DefineEvent(id, ev); rerr != nil {
				return nil, i.raise(def.Span(), rerr)
			}
		}
	}

	// $name resolves to the object from now on.
	if rerr := i.model.DefineProperty(object.SystemID, def.Name, id, "r"); rerr != nil {
		return nil, i.raise(def.Span(), rerr)
	}
	return id, nil
}

func (i *Interp) resolveParent(def *ast.ObjectDef, env *runtime.Environment) (runtime.Obj, error) {
	if def.Parent == nil {
		return object.RootID, nil
	}
	if ident, ok := def.Parent.(*ast.Identifier); ok {
		if id, found := i.model.FindByName(ident.Name); found {
			return id, nil
		}
		return 0, i.raisef(ident.Span(), runtime.EINVARG, "unknown parent object %q", ident.Name)
	}
	return i.evalObject(def.Parent, env)
}
