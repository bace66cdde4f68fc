// wpdeploy is a configuration-driven deployment orchestrator for
// WordPress-shaped sites.
package main

import "os"

func main() {
	os.Exit(Execute())
}
