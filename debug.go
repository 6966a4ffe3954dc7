package simpledi

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

type GraphInfo struct {
	Types []TypeInfo
	// Unresolved lists parameter types that were requested but never built.
	Unresolved []string
}

type TypeInfo struct {
	Key          string
	Dependencies []string
	Dependents   []string
	// Records counts stored shared instances declared with this type.
	Records int
}

func (r *Registry) Graph() GraphInfo {
	records := make(map[string]int)
	for _, rec := range r.Records() {
		records[rec.Type]++
	}

	keys := r.graph.Nodes()
	for key := range records {
		if !r.graph.HasNode(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	types := make([]TypeInfo, 0, len(keys))
	for _, key := range keys {
		types = append(
			types, TypeInfo{
				Key:          key,
				Dependencies: r.graph.GetDependencies(key),
				Dependents:   r.graph.GetDependents(key),
				Records:      records[key],
			},
		)
	}

	var unresolved []string
	for _, dep := range r.graph.Missing() {
		if records[dep] == 0 {
			unresolved = append(unresolved, dep)
		}
	}

	return GraphInfo{Types: types, Unresolved: unresolved}
}

func (r *Registry) PrintGraph() {
	r.FprintGraph(os.Stdout)
}

func (r *Registry) FprintGraph(w io.Writer) {
	info := r.Graph()

	for _, typ := range info.Types {
		status := "○"
		if typ.Records > 0 {
			status = "●"
		}

		if len(typ.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, typ.Key)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, typ.Key, strings.Join(typ.Dependencies, ", "))
		}
	}

	for _, dep := range info.Unresolved {
		_, _ = fmt.Fprintf(w, "✗ %s\n", dep)
	}
}

func (r *Registry) SprintGraph() string {
	var sb strings.Builder
	r.FprintGraph(&sb)
	return sb.String()
}

func (r *Registry) PrintGraphDOT() {
	r.FprintGraphDOT(os.Stdout)
}

func (r *Registry) FprintGraphDOT(w io.Writer) {
	info := r.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, typ := range info.Types {
		label := escapeLabel(typ.Key)
		style := ""
		if typ.Records > 0 {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", typ.Key, label, style)
	}
	for _, dep := range info.Unresolved {
		_, _ = fmt.Fprintf(w, "  %q [label=%q, style=dashed];\n", dep, escapeLabel(dep))
	}

	_, _ = fmt.Fprintln(w)

	for _, typ := range info.Types {
		for _, dep := range typ.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", typ.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (r *Registry) SprintGraphDOT() string {
	var sb strings.Builder
	r.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
