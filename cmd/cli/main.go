// logdocker - Portworx Log Extraction Tool
//
// logdocker parses syslog-wrapped Portworx log lines into structured records,
// writes them to a table file, and prints severity-colored query views.
package main

import (
	"os"

	"github.com/ccollicutt/logdocker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
