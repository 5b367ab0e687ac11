// Package models defines the domain types shared by the viewer and the cleaner.
package models

import "sort"

// Field is a single named note field as reported by AnkiConnect.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note is a flashcard note as returned by the notesInfo action.
type Note struct {
	ID        int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Tags      []string         `json:"tags"`
	Fields    map[string]Field `json:"fields"`
}

// Field returns the value of the named field and whether it exists.
func (n *Note) Field(name string) (string, bool) {
	f, ok := n.Fields[name]
	return f.Value, ok
}

// FirstField returns the value of the lowest-ordered field, or "" for a
// note without fields.
func (n *Note) FirstField() string {
	names := make([]string, 0, len(n.Fields))
	for name := range n.Fields {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return n.Fields[names[i]].Order < n.Fields[names[j]].Order
	})
	if len(names) == 0 {
		return ""
	}
	return n.Fields[names[0]].Value
}
