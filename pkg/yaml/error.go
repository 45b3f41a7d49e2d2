package yaml

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// NewPathBuilder returns a builder for [yaml.Path] values.
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a YAML error located either by a [yaml.Path] or by the
// [*token.Token] the parser stopped at.
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ""
	}

	switch {
	case e.Token != nil:
		var pp printer.Printer

		return fmt.Sprintf("[%d:%d] %v\n%s",
			e.Token.Position.Line, e.Token.Position.Column, e.Err,
			pp.PrintErrorToken(e.Token, false),
		)

	case e.Path != nil:
		msg := fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)

		var p pather
		if errors.As(e.Err, &p) {
			// The wrapped error already names its location.
			msg = e.Err.Error()
		}

		if len(e.Source) == 0 {
			return msg
		}

		src, err := e.Path.AnnotateSource(e.Source, false)
		if err != nil {
			return msg
		}

		return fmt.Sprintf("%s\n%s", msg, src)
	}

	return e.Err.Error()
}

// ErrorWrapper attaches the source document to errors that carry a location.
type ErrorWrapper struct {
	source []byte
}

func NewErrorWrapper(source []byte) *ErrorWrapper {
	return &ErrorWrapper{source: source}
}

// Wrap returns err with source context when it is an [*Error] or carries a
// [*yaml.Path] via pather. Other errors are returned unmodified.
func (ew *ErrorWrapper) Wrap(err error) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		yamlErr.Source = ew.source
		return yamlErr
	}

	var p pather
	if errors.As(err, &p) && p.YAMLPath() != nil {
		return NewError(err, WithPath(p.YAMLPath()), WithSource(ew.source))
	}

	return err
}

type pather interface {
	YAMLPath() *yaml.Path
}
