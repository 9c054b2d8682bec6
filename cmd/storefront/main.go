// cmd/storefront/main.go
package main

import "storefront/internal/adapters/in/cli"

func main() {
	cli.Main()
}
