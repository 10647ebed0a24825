package domain

import "fmt"

// Entity is a flat input record as served by the entity source.
type Entity struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Level  string `json:"level"`
	Parent *int64 `json:"parent"`
}

// HasParent reports whether the entity references a parent.
func (e *Entity) HasParent() bool {
	return e.Parent != nil
}

// String returns a string representation of the entity
func (e *Entity) String() string {
	if e.Parent == nil {
		return fmt.Sprintf("%d: %s (%s)", e.ID, e.Name, e.Level)
	}
	return fmt.Sprintf("%d: %s (%s, parent %d)", e.ID, e.Name, e.Level, *e.Parent)
}

// ParentID returns a pointer to id, for building entities in code.
func ParentID(id int64) *int64 {
	return &id
}
