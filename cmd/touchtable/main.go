// Command touchtable runs the demo table or replays input scripts headlessly.
package main

import "github.com/phanxgames/touchtable/internal/cli"

func main() {
	cli.Execute()
}
