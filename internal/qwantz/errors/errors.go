/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package errors provides the process-tagged error type used across the
// recognition and attribution pipeline: every error carries the name of
// the process ("Font.GetChar", "MatchLines", ...) that raised it plus an
// optional wrapped cause, so a panel-scoped failure can be traced back to
// its origin without needing a stack trace.
package errors

import (
	"fmt"

	"golang.org/x/xerrors"
)

var _ xerrors.Wrapper = (*processError)(nil)

type processError struct {
	header  string
	process string
	message string
	wrapped error
}

func (p *processError) Error() string {
	message := p.header
	message += "Process: " + p.process
	if p.message != "" {
		message += " Message: " + p.message
	}
	if p.wrapped != nil {
		message += ". " + p.wrapped.Error()
	}
	return message
}

// Unwrap satisfies xerrors.Wrapper (and the stdlib errors.Unwrap contract)
// so errors.Is/errors.As see through a chain of process errors.
func (p *processError) Unwrap() error {
	return p.wrapped
}

// Error returns an error wrapped with the provided process name and message.
func Error(processName, message string) error {
	return newProcessError(message, processName)
}

// Errorf returns an error with a formatted message and the given process name.
func Errorf(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName)
}

func newProcessError(message, processName string) *processError {
	return &processError{header: "[qwantz] ", message: message, process: processName}
}

// Wrap wraps err with the given process name and message.
func Wrap(err error, processName, message string) error {
	if inner, ok := err.(*processError); ok {
		inner.header = ""
	}
	wrapper := newProcessError(message, processName)
	wrapper.wrapped = err
	return wrapper
}

// Wrapf wraps err with a formatted message and the given process name.
func Wrapf(err error, processName, message string, arguments ...interface{}) error {
	if inner, ok := err.(*processError); ok {
		inner.header = ""
	}
	wrapper := newProcessError(fmt.Sprintf(message, arguments...), processName)
	wrapper.wrapped = err
	return wrapper
}
