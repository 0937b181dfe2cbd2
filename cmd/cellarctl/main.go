// Command cellarctl provides offline maintenance for the sommelier data
// directory: backup and restore of the SQLite database and config.
package main

import (
	"fmt"
	"os"

	"github.com/sommia/sommelier/internal/version"
)

func usage() {
	fmt.Fprintf(os.Stderr, `cellarctl - SOMMIA data maintenance

Usage:
  cellarctl backup  [flags]   create a tar.gz backup of the database
  cellarctl restore [flags]   restore a backup archive
  cellarctl version           print version information

Run "cellarctl <command> -h" for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "backup":
		runBackup(os.Args[2:])
	case "restore":
		runRestore(os.Args[2:])
	case "version":
		fmt.Println(version.Info())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}
