// filedepot indexes a directory subtree and answers relevance-ranked
// searches mixing literal phrases with typo-tolerant matching.
package main

import (
	"fmt"
	"os"

	"github.com/filedepot/filedepot/cmd/filedepot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
