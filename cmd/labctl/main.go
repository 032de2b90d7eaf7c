// Command labctl runs administrative tasks against the lab database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
