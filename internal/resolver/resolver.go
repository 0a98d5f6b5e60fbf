// Package resolver undoes the $id/$ref reference compression applied by
// identity-preserving JSON serializers. The upstream serializer emits a
// shared object once (with $id) and points every other occurrence at it
// (with $ref); Resolve rebuilds the tree with every $ref replaced by an
// independent copy of the object it names.
//
// Resolution favors robustness over fidelity: it never panics, never
// returns an error, and never recurses forever. A dangling $ref degrades
// to an empty object, and a true cycle is cut with a {"circular": true}
// sentinel at the back-edge.
package resolver

import (
	"encoding/json"
	"reflect"
	"strconv"

	"refnorm/internal/models"
)

// Resolve replaces every $ref in root with the object it points to and
// returns the rebuilt value. The input is left untouched; the result shares
// no containers with it. The id table is local to this one call, so
// concurrent Resolve invocations are fully independent.
func Resolve(root models.JSONValue) models.JSONValue {
	r := &resolver{ids: make(map[string]models.JSONObject)}
	r.collect(root)
	return r.resolve(root, make(chain))
}

// ResolveDocument resolves a parsed document in place of its root.
func ResolveDocument(doc models.Document) models.Document {
	doc.Root = Resolve(doc.Root)
	return doc
}

type resolver struct {
	// ids maps a declared $id to the object that declared it.
	// Repeated declarations are not expected but must not crash; the
	// last one seen wins.
	ids map[string]models.JSONObject
}

// chain is the set of objects currently being resolved on one recursive
// call path, keyed by object identity rather than by $id string. It exists
// purely to detect back-edges; siblings never see each other's entries.
type chain map[uintptr]struct{}

func (c chain) fork() chain {
	out := make(chain, len(c))
	for k := range c {
		out[k] = struct{}{}
	}
	return out
}

// identity returns a stable per-instance key for a JSON object.
func identity(obj models.JSONObject) uintptr {
	return reflect.ValueOf(obj).Pointer()
}

// collect walks the whole value depth-first and records every $id
// declaration before any resolution happens, so backward references are
// always available during the second pass.
func (r *resolver) collect(v models.JSONValue) {
	if obj, ok := models.AsObject(v); ok {
		if id, ok := markerKey(obj[models.KeyID]); ok {
			r.ids[id] = obj
		}
		for _, val := range obj {
			r.collect(val)
		}
		return
	}
	if arr, ok := models.AsArray(v); ok {
		for _, elem := range arr {
			r.collect(elem)
		}
	}
}

// resolve rebuilds v with all references expanded. visited carries the
// objects on the current call path; each array element continues with its
// own copy so that sibling elements do not share cycle-detection state
// (a diamond of two branches sharing one $id is not a cycle).
func (r *resolver) resolve(v models.JSONValue, visited chain) models.JSONValue {
	if obj, ok := models.AsObject(v); ok {
		if ref, ok := markerKey(obj[models.KeyRef]); ok {
			return r.follow(ref, visited)
		}
		out := make(models.JSONObject, len(obj))
		for key, val := range obj {
			// $id stays in the output (harmless); $values is just an
			// array under a fixed key and resolves like any other value.
			out[key] = r.resolve(val, visited)
		}
		return out
	}
	if arr, ok := models.AsArray(v); ok {
		out := make(models.JSONArray, len(arr))
		for i, elem := range arr {
			out[i] = r.resolve(elem, visited.fork())
		}
		return out
	}
	// Scalars and null pass through unchanged.
	return v
}

// follow expands one $ref. An unknown id degrades to an empty object, and
// an id already on the current call path means a back-edge, which is cut
// with the circular sentinel instead of recursing.
func (r *resolver) follow(ref string, visited chain) models.JSONValue {
	target, found := r.ids[ref]
	if !found {
		return models.JSONObject{}
	}
	ident := identity(target)
	if _, cyclic := visited[ident]; cyclic {
		return models.JSONObject{models.KeyCircular: true}
	}
	visited[ident] = struct{}{}
	// Resolution rebuilds containers from scratch, so the result is
	// already an independent copy: defaulting applied to one occurrence
	// of a shared object never leaks into another.
	resolved := r.resolve(target, visited)
	delete(visited, ident)
	return resolved
}

// markerKey reads a $id/$ref value as a string key. The serializer emits
// string ids, but numeric ids have been seen in the wild and must not be
// dropped on the floor.
func markerKey(v models.JSONValue) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
