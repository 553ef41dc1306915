// stockctl opera el libro de stock desde la terminal, con la misma configuración y
// persistencia que la API.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	a := newApp(os.Stdout)
	flag.BoolVar(&a.plain, "plain", false, "imprime markdown sin formato de terminal")
	a.register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
