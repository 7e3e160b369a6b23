package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrNoFilePath indicates a save was attempted on a scratch buffer.
	ErrNoFilePath = errors.New("no file path")

	// ErrUnsavedChanges indicates there are unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrUnknownCommand indicates an unrecognized ex-command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingArgument indicates an ex-command called without a
	// required argument.
	ErrMissingArgument = errors.New("missing argument")
)

// FileError wraps a file operation failure with the operation and path.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
