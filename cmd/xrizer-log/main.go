// Command xrizer-log views and analyzes xrizer event log files.
//
// Log files are written by the runtime when a log file path is
// configured (config log_file or XRIZER_LOG_FILE).
//
// Usage:
//
//	xrizer-log <command> [flags] <file.xlog>
//
// Commands:
//
//	view   View log file in human-readable format
//	stats  Show statistics about the log file
//
// Examples:
//
//	# View all events
//	xrizer-log view session.xlog
//
//	# View only sync cycles
//	xrizer-log view --category sync session.xlog
//
//	# View events for device index 1
//	xrizer-log view --device 1 session.xlog
//
//	# Show statistics
//	xrizer-log stats session.xlog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/testerpester2/xrizer/cmd/xrizer-log/commands"
	"github.com/testerpester2/xrizer/pkg/log"
)

const usage = `xrizer-log - xrizer event log analyzer

Usage:
  xrizer-log <command> [flags] <file.xlog>

Commands:
  view   View log file in human-readable format
  stats  Show statistics about the log file

Use "xrizer-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `xrizer-log view - View log file in human-readable format

Usage:
  xrizer-log view [flags] <file.xlog>

Flags:
`)
		fs.PrintDefaults()
	}

	session := fs.String("session", "", "Filter by session ID")
	category := fs.String("category", "", "Filter by category (sync, device, binding, space, state, error)")
	deviceIdx := fs.String("device", "", "Filter by device index")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter := &log.Filter{SessionID: *session}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}
	if *deviceIdx != "" {
		d, err := commands.ParseDeviceFlag(*deviceIdx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.DeviceIndex = &d
	}
	if *timeStart != "" {
		ts, err := time.Parse(time.RFC3339, *timeStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid time-start: %v\n", err)
			os.Exit(1)
		}
		filter.TimeStart = ts
	}
	if *timeEnd != "" {
		ts, err := time.Parse(time.RFC3339, *timeEnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid time-end: %v\n", err)
			os.Exit(1)
		}
		filter.TimeEnd = ts
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `xrizer-log stats - Show statistics about the log file

Usage:
  xrizer-log stats <file.xlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
