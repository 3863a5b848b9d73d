/*
Package config provides the asset task table for assetrc.

	      +------------------+
	      |  DefaultTasks()  |  built in, used when no table file is given
	      +---------+--------+
	                |
	                v
	+-------+   +--------+   +-------+
	|  HCL  |   |  YAML  |   | JSON  |   optional --tasks file
	+---+---+   +----+---+   +---+---+
	    +-----------+-----------+
	                |
	          Validate() -> []asset.Task

A table file lists tasks in order. Every task names a source (literal path or glob, relative to the
project root), a destination, and a kind (move or copy, default copy):

	task "loading-video" {
	  source      = "Untitled video - Made with Clipchamp.mp4"
	  destination = "src/assets/video/loading-screen.mp4"
	  kind        = move
	}

	reports = ["DAC_Report.pdf"]

The same table in YAML:

	tasks:
	  - name: loading-video
	    source: Untitled video - Made with Clipchamp.mp4
	    destination: src/assets/video/loading-screen.mp4
	    kind: move
	reports:
	  - DAC_Report.pdf
*/
package config
