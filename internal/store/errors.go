package store

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent = errors.New("task content is required")
	ErrEmptyName    = errors.New("project name is required")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
