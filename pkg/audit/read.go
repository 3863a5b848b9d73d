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
	"bufio"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧾 Run is one invocation's slice of the audit log
type Run struct {
	Marker string
	Lines  []string
}

// ReadRuns parses the log at path into runs. Lines written before the first marker are returned
// as a run with an empty marker. A missing file yields no runs.
func ReadRuns(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	var runs []Run
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if IsRunStart(line) {
			runs = append(runs, Run{Marker: line})
			continue
		}
		if len(runs) == 0 {
			runs = append(runs, Run{})
		}
		runs[len(runs)-1].Lines = append(runs[len(runs)-1].Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading audit log: %w", err)
	}
	return runs, nil
}

// LastRun returns the most recent run in the log, if any
func LastRun(path string) (Run, bool, error) {
	runs, err := ReadRuns(path)
	if err != nil {
		return Run{}, false, err
	}
	if len(runs) == 0 {
		return Run{}, false, nil
	}
	return runs[len(runs)-1], true, nil
}
