// Copyright 2026 Orbit OS Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package verrors defines the sentinel error kinds shared by the VFS
// controller and every driver it talks to.
package verrors

import "fmt"

// Code identifies one of the fixed set of error kinds a driver or the
// controller may return.
type Code int

const (
	Success Code = iota
	IndexOutOfRange
	NotImplemented
	BadChecksum
	IOError
	InvalidData
	InvalidSector
	NotDirectory
	NotFile
	NoSuchFile
	FileExists
	FileOpened
	NotOpened
	VolumeMounted
	VolumeBusy
	NotMounted
	EndOfFile
	NotMBR
	NotGPT
	UnsupportedGPT
	NotFAT
	OutOfFrames
)

var names = map[Code]string{
	Success:         "success",
	IndexOutOfRange: "index out of range",
	NotImplemented:  "not implemented",
	BadChecksum:     "bad checksum",
	IOError:         "io error",
	InvalidData:     "invalid data",
	InvalidSector:   "invalid sector",
	NotDirectory:    "not a directory",
	NotFile:         "not a file",
	NoSuchFile:      "no such file",
	FileExists:      "file exists",
	FileOpened:      "file opened",
	NotOpened:       "not opened",
	VolumeMounted:   "volume mounted",
	VolumeBusy:      "volume busy",
	NotMounted:      "not mounted",
	EndOfFile:       "end of file",
	NotMBR:          "not an MBR",
	NotGPT:          "not a GPT",
	UnsupportedGPT:  "unsupported GPT",
	NotFAT:          "not a FAT32 volume",
	OutOfFrames:     "out of frames",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("verrors.Code(%d)", int(c))
}

// Error is a sentinel, comparable error value carrying one Code. Callers
// compare with errors.Is against the package-level sentinels below.
type Error struct {
	code Code
}

func (e *Error) Error() string { return e.code.String() }

// FromError reports the error kind carried by err: Success if err is nil,
// IOError if err is not itself a *Error (wrapped errors are not unwrapped).
func FromError(err error) Code {
	if err == nil {
		return Success
	}
	if e, ok := err.(*Error); ok {
		return e.code
	}
	return IOError
}

func New(c Code) *Error { return &Error{code: c} }

var (
	ErrIndexOutOfRange = New(IndexOutOfRange)
	ErrNotImplemented  = New(NotImplemented)
	ErrBadChecksum     = New(BadChecksum)
	ErrIOError         = New(IOError)
	ErrInvalidData     = New(InvalidData)
	ErrInvalidSector   = New(InvalidSector)
	ErrNotDirectory    = New(NotDirectory)
	ErrNotFile         = New(NotFile)
	ErrNoSuchFile      = New(NoSuchFile)
	ErrFileExists      = New(FileExists)
	ErrFileOpened      = New(FileOpened)
	ErrNotOpened       = New(NotOpened)
	ErrVolumeMounted   = New(VolumeMounted)
	ErrVolumeBusy      = New(VolumeBusy)
	ErrNotMounted      = New(NotMounted)
	ErrEndOfFile       = New(EndOfFile)
	ErrNotMBR          = New(NotMBR)
	ErrNotGPT          = New(NotGPT)
	ErrUnsupportedGPT  = New(UnsupportedGPT)
	ErrNotFAT          = New(NotFAT)
	ErrOutOfFrames     = New(OutOfFrames)
)

// Is implements errors.Is support against other *Error values with the same
// code so verrors.ErrNoSuchFile can be compared even across wraps.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.code == e.code
}
