// Package errors carries the sentinel errors of the assistant plus thin
// re-exports of github.com/pkg/errors so callers need a single import.
package errors

import (
	"github.com/pkg/errors"
)

var (
	Wrap      = errors.Wrap
	Wrapf     = errors.Wrapf
	Errorf    = errors.Errorf
	New       = errors.New
	WithStack = errors.WithStack
	Is        = errors.Is
	As        = errors.As
)
