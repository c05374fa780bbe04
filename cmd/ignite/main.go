// Command ignite is a minimal command-line front end over pkg/ignite.
//
// Usage:
//
//	ignite set KEY VALUE
//	ignite get KEY
//	ignite rm KEY
//	ignite -V
//
// The current working directory is the default data root: running ignite
// from different directories operates on different, independent stores.
package main

import (
	"fmt"
	"os"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/options"
)

// version is the CLI's reported version for -V/--version.
const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ignite <set KEY VALUE|get KEY|rm KEY>")
		return 1
	}

	switch args[0] {
	case "-V", "--version":
		fmt.Println(version)
		return 0
	case "set":
		return runSet(args[1:])
	case "get":
		return runGet(args[1:])
	case "rm":
		return runRemove(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		return 1
	}
}

func openStore() (*ignite.Instance, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, 1
	}

	db, err := ignite.NewInstance("ignite-cli", options.WithDefaultOptions(), options.WithDataDir(cwd))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		return nil, 1
	}
	return db, 0
}

// reportError prints err to stderr, classified by the errors package's
// error-code taxonomy rather than a flat message, and returns the exit
// code that classification warrants. A storage or index failure (I/O,
// disk, corruption) gets exit 2, since the operator likely needs to act
// on it; a validation failure or anything unclassified gets exit 1,
// alongside the usage errors this CLI already reports that way.
func reportError(err error) int {
	code := errors.GetErrorCode(err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", code, err)

	if details := errors.GetErrorDetails(err); len(details) > 0 {
		fmt.Fprintf(os.Stderr, "  details: %+v\n", details)
	}

	switch {
	case errors.IsStorageError(err), errors.IsIndexError(err):
		return 2
	case errors.IsValidationError(err):
		return 1
	default:
		return 1
	}
}

func runSet(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ignite set KEY VALUE")
		return 1
	}

	db, code := openStore()
	if db == nil {
		return code
	}
	defer db.Close()

	if err := db.Set(args[0], args[1]); err != nil {
		return reportError(err)
	}
	return 0
}

func runGet(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ignite get KEY")
		return 1
	}

	db, code := openStore()
	if db == nil {
		return code
	}
	defer db.Close()

	value, found, err := db.Get(args[0])
	if err != nil {
		return reportError(err)
	}
	if !found {
		fmt.Println("Key not found")
		return 0
	}

	fmt.Println(value)
	return 0
}

func runRemove(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: ignite rm KEY")
		return 1
	}

	db, code := openStore()
	if db == nil {
		return code
	}
	defer db.Close()

	if err := db.Delete(args[0]); err != nil {
		if errors.IsKeyNotFoundError(err) {
			fmt.Println("Key not found")
			return 1
		}
		return reportError(err)
	}
	return 0
}
