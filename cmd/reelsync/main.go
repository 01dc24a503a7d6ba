// Command reelsync mirrors a movie tracking account into a local SQLite
// database and pushes local edits back.
package main

import (
	"os"

	"github.com/roach88/reelsync/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
