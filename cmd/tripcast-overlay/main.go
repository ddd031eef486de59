// tripcast-overlay renders live trip progress for a stream overlay and
// serves it over HTTP.
package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/tripcast-io/tripcast/cmd/tripcast-overlay/app"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tripcast-overlay: %v\n", err)
		os.Exit(1)
	}
}
