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

package config

import "github.com/walteh/assetrc/pkg/asset"

// 🧰 DefaultTasks is the site's asset bundle: the loading video, event reports, department and
// club logos, club documents and the 3D mascot model.
func DefaultTasks() []asset.Task {
	return []asset.Task{
		{Name: "loading-video", Source: "Untitled video - Made with Clipchamp.mp4", Destination: "src/assets/video/loading-screen.mp4", Kind: asset.KindMove},
		{Name: "query-quest-report", Source: "Query Quest*.pdf", Destination: "public/query_quest_report.pdf", Kind: asset.KindMove},
		{Name: "department-logo-public", Source: "1749373788465.jpeg", Destination: "public/department_logo.jpeg", Kind: asset.KindCopy},
		{Name: "club-document", Source: "DATA_ANALYTICS_CLUB.pdf", Destination: "public/DATA_ANALYTICS_CLUB.pdf", Kind: asset.KindCopy},
		{Name: "event-report", Source: "report event 2.pdf", Destination: "public/report_event_2.pdf", Kind: asset.KindCopy},
		{Name: "club-logo", Source: "src/assets/images/Data analytics Club.png", Destination: "public/dac-logo.png", Kind: asset.KindCopy},
		{Name: "department-logo-src", Source: "1749373788465.jpeg", Destination: "src/assets/images/department-logo.jpg", Kind: asset.KindCopy},
		{Name: "dac-report", Source: "DAC_Report.pdf", Destination: "public/DAC_Report.pdf", Kind: asset.KindCopy},
		{Name: "owl-model", Source: "cartoon owl 3d model.glb", Destination: "public/owl.glb", Kind: asset.KindCopy},
	}
}

// DefaultReports lists the report PDFs previewed first, in priority order
func DefaultReports() []string {
	return []string{
		"DAC_Report.pdf",
		"Data_Analytics_Club_report.pdf",
		"DATA_ANALYTICS_CLUB.pdf",
		"Impact-ai-thon Initial Document.pdf",
		"report event 2.pdf",
		"Query Quest – DBMS & SQL Workshop and Quiz Competition (3).pdf",
	}
}

// Default returns the built-in table as a validated Config
func Default() *Config {
	cfg := &Config{Reports: DefaultReports()}
	for _, t := range DefaultTasks() {
		cfg.Tasks = append(cfg.Tasks, TaskDef{
			Name:        t.Name,
			Source:      t.Source,
			Destination: t.Destination,
			Kind:        string(t.Kind),
		})
	}
	cfg.tasks = DefaultTasks()
	return cfg
}
