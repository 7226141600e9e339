// dnscompare entrypoint - delegates to cli.Execute.
package main

import (
	"github.com/sudo-tiz/dns-compare-go/internal/cli"
)

func main() {
	cli.Execute()
}
