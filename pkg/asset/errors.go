// Copyright 2025 walteh LLC
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

package asset

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrNotFound              = errors.Base("source not found")
	ErrDirectoryCreation     = errors.Base("directory creation failed")
	ErrTransfer              = errors.Base("transfer failed")
	ErrExtractionUnavailable = errors.Base("no text extraction backend available")
	ErrExtractionFailure     = errors.Base("text extraction failed")
)

// 📁 DirectoryError is returned when a destination directory chain cannot be created
type DirectoryError struct {
	Path  string
	Cause error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("creating directory %s: %v", e.Path, e.Cause)
}

func (e *DirectoryError) Unwrap() error { return e.Cause }

func (e *DirectoryError) Is(target error) bool { return target == ErrDirectoryCreation }

// 💥 TransferError is returned when a move and its copy fallback both fail, or a copy fails
type TransferError struct {
	Source      string
	Destination string
	Cause       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transferring %s to %s: %v", e.Source, e.Destination, e.Cause)
}

func (e *TransferError) Unwrap() error { return e.Cause }

func (e *TransferError) Is(target error) bool { return target == ErrTransfer }

// NotFoundError builds the error recorded when a source spec resolves to nothing
func NotFoundError(spec string) error {
	return errors.Errorf("%w: %s", ErrNotFound, spec)
}
