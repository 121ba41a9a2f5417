// Package stp reads and writes stable pose (.stp) files.
//
// An .stp file is a fixed-layout text format: an 8-line banner followed by
// one 6-line block per pose. Each block is
//
//	p <probability>
//	r <r00> <r01> <r02>
//	  <r10> <r11> <r12>
//	  <r20> <r21> <r22>
//	x0 <t0> <t1> <t2>
//	id <identifier>
//
// Only the first rotation row carries the "r" tag; the remaining two rows
// are bare triplets. The id line is optional.
package stp

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/stablepose/internal/fsutil"
)

// Extension is the required suffix for stable pose files. The match is
// exact and case-sensitive.
const Extension = ".stp"

// ErrInvalidExtension is returned by NewFile when the path does not end
// in Extension.
var ErrInvalidExtension = errors.New("invalid extension for stable pose file")

// MalformedRecordError reports a structurally broken or non-numeric pose
// record encountered during Read.
type MalformedRecordError struct {
	// Line is the 1-based line number of the offending line.
	Line int

	// Reason describes what was wrong with the line.
	Reason string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed pose record at line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed pose record at line %d: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// File is a stable pose file reader and writer bound to a single path.
// Construction validates the extension only; the file itself is not touched
// until Read or Write.
type File struct {
	fs   fsutil.FileSystem
	path string
}

// NewFile returns a File for path backed by the OS filesystem.
func NewFile(path string) (*File, error) {
	return NewFileFS(fsutil.OSFileSystem{}, path)
}

// NewFileFS returns a File for path backed by the given filesystem.
func NewFileFS(fsys fsutil.FileSystem, path string) (*File, error) {
	if ext := filepath.Ext(path); ext != Extension {
		return nil, fmt.Errorf("extension %q invalid for stable pose files: %w", ext, ErrInvalidExtension)
	}
	return &File{fs: fsys, path: path}, nil
}

// Path returns the path this File reads from and writes to.
func (f *File) Path() string {
	return f.path
}
