package domain

import (
	"errors"
	"fmt"
)

// Data-integrity failures reported while building a hierarchy.
var (
	ErrUnknownLevel    = errors.New("unknown level")
	ErrMissingParent   = errors.New("parent does not resolve")
	ErrParentLevel     = errors.New("parent is not one level shallower")
	ErrParentNotPlaced = errors.New("parent was not placed in the tree")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrOrphanRelative  = errors.New("relative set id has no entity")
)

// IntegrityError describes one rejected entity. The build continues past it.
type IntegrityError struct {
	EntityID int64
	ParentID int64 // 0 when not applicable
	Depth    int
	Err      error
}

func (e *IntegrityError) Error() string {
	if e.ParentID != 0 {
		return fmt.Sprintf("entity %d (depth %d, parent %d): %v", e.EntityID, e.Depth, e.ParentID, e.Err)
	}
	return fmt.Sprintf("entity %d (depth %d): %v", e.EntityID, e.Depth, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
