// Command rosterctl runs operator tasks against the roster database:
// migrations, bootstrapping an admin account and password maintenance.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
