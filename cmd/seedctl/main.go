// Command seedctl drives the seed provisioning flow from a terminal: it
// requests and decrypts seeds, prints and checks TOTP codes and builds
// commit proofs, using the same configuration file as the server.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
