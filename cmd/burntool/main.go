// burntool is a CLI utility for STL meshes and laser G-code.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// errUsage marks a bad command line; the usage text has been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type command struct {
	name  string
	usage string
	run   func(args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{"info", "info <file.stl|file.gcode>", cmdInfo},
	{"burn", "burn [options] <file.stl>", cmdBurn},
	{"fmt", "fmt [options] <file.gcode>", cmdFmt},
	{"merge", "merge [options] <a.gcode> <b.gcode>...", cmdMerge},
	{"outline", "outline [options] <file.stl|file.gcode>", cmdOutline},
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}
	for _, c := range commands {
		if c.name == name {
			return c.run(rest, stdout, stderr)
		}
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n", name)
	printUsage(stderr)
	return errUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `burntool - STL and laser G-code utility

Usage:
  burntool <command> [options]

Commands:
  info <file>                     Show mesh or toolpath information
  burn [options] <file.stl>       Generate a laser burn path from a mesh
  fmt [options] <file.gcode>      Re-emit G-code at a fixed precision
  merge [options] <files...>      Concatenate G-code programs
  outline [options] <file>        Export contours as SVG or DXF, or a PNG preview

Every command accepts -config <file.yaml> and -machine <file.ini>.

Examples:
  burntool info part.stl
  burntool burn -fit -center -o part.gcode part.stl
  burntool burn -mode slice -z 2.5 -passes 3 part.stl
  burntool merge -o all.gcode a.gcode b.gcode
  burntool outline -format svg -o part.svg part.stl`)
}

// newFlagSet creates a subcommand flag set that reports errors instead
// of exiting.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := &commonFlags{}
	fs.StringVar(&cf.config, "config", "", "Path to config file")
	fs.StringVar(&cf.machine, "machine", "", "Path to machine INI file")
	fs.BoolVar(&cf.verbose, "v", false, "Log progress to stderr")
	return fs, cf
}

func parse(fs *flag.FlagSet, args []string, min int, usage string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < min {
		fmt.Fprintf(fs.Output(), "Usage: burntool %s\n", usage)
		fs.PrintDefaults()
		return errUsage
	}
	return nil
}
