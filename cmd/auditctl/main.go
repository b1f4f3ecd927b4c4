// auditctl is the command-line interface for scoring home energy audits.
package main

import (
	"os"

	"github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
