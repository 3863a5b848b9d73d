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

package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/walteh/assetrc/pkg/asset"
)

const (
	markerPrefix = "--- New Run"
	markerSuffix = "---"
)

// FormatRunStart renders the run boundary line
func FormatRunStart(runID string, at time.Time) string {
	return fmt.Sprintf("%s %s %s %s", markerPrefix, runID, at.UTC().Format(time.RFC3339), markerSuffix)
}

// IsRunStart reports whether line is a run boundary
func IsRunStart(line string) bool {
	return strings.HasPrefix(line, markerPrefix) && strings.HasSuffix(line, markerSuffix)
}

// 🖋️ FormatOutcome renders one outcome as a single human readable line. Console and file output
// share it so both always say the same thing.
func FormatOutcome(out asset.Outcome) string {
	name := out.Task.Name
	if name == "" {
		name = out.Task.Source
	}

	switch {
	case out.NotFound():
		return fmt.Sprintf("Error: [%s] Source '%s' not found/matched (destination '%s').",
			name, out.Task.Source, out.Task.Destination)
	case out.Failed():
		return fmt.Sprintf("Error: [%s] '%s' -> '%s': %s",
			name, out.Source, out.Destination, oneLine(out.Err.Error()))
	}

	line := fmt.Sprintf("Success: [%s] %s '%s' to '%s' (%s).",
		name, out.Action, out.Source, out.Destination, humanize.Bytes(uint64(max(out.Bytes, 0))))
	if out.Warning != "" {
		line += " Warning: " + oneLine(out.Warning)
	}
	return line
}

// the log is line oriented; causes from the OS may carry newlines
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
