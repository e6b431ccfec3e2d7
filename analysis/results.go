package analysis

import (
	"slices"
	"strings"
)

// Results accumulates the metadata of an argument list as each argument is
// analyzed.  The zero value is an empty record ready for use.  A Results
// must not be copied after first use and is not safe for concurrent
// mutation.
type Results struct {
	hasGeneric           bool
	hasVariadic          bool
	hasVariadicOfGeneric bool
	concreteCount        int
	variables            map[string]struct{}
	typeString           strings.Builder
}

// HasGeneric is true once any argument mentions a generic.
func (r *Results) HasGeneric() bool {
	return r.hasGeneric
}

// HasVariadic is true once a top-level argument is variadic.
func (r *Results) HasVariadic() bool {
	return r.hasVariadic
}

// HasVariadicOfGeneric is true once a top-level variadic argument contains
// a generic anywhere below it.
func (r *Results) HasVariadicOfGeneric() bool {
	return r.hasVariadicOfGeneric
}

// ConcreteCount is the number of scalar and container nodes seen.
func (r *Results) ConcreteCount() int {
	return r.concreteCount
}

// Variables returns the rendered names ("__user_<Name>") of the type
// variables seen, sorted.
func (r *Results) Variables() []string {
	vars := make([]string, 0, len(r.variables))
	for name := range r.variables {
		vars = append(vars, name)
	}
	slices.Sort(vars)
	return vars
}

// HasVariable reports whether the rendered variable name has been seen.
func (r *Results) HasVariable(name string) bool {
	_, ok := r.variables[name]
	return ok
}

// TypeAsString returns the rendering of the arguments analyzed since the
// last call to ResetTypeString.
func (r *Results) TypeAsString() string {
	return r.typeString.String()
}

// ResetTypeString clears the type string and nothing else.
func (r *Results) ResetTypeString() {
	r.typeString.Reset()
}

func (r *Results) addVariable(name string) {
	if r.variables == nil {
		r.variables = make(map[string]struct{})
	}
	r.variables[name] = struct{}{}
}

// merge folds the record o into r.
func (r *Results) merge(o *Results) {
	r.hasGeneric = r.hasGeneric || o.hasGeneric
	r.hasVariadic = r.hasVariadic || o.hasVariadic
	r.hasVariadicOfGeneric = r.hasVariadicOfGeneric || o.hasVariadicOfGeneric
	r.concreteCount += o.concreteCount
	for name := range o.variables {
		r.addVariable(name)
	}
	r.typeString.WriteString(o.typeString.String())
}
