package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oasguard/oasguard"
	"github.com/oasguard/oasguard/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasguard v%s\n", oasguard.Version())
	case "help", "-h", "--help":
		printUsage()
	case "proxy":
		if err := handleProxy(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		ok, err := handleCheck(os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcpserver.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`oasguard - OpenAPI contract conformance for live HTTP traffic

Usage:
  oasguard <command> [options]

Commands:
  proxy       Run a reverse proxy that reports contract violations in passing traffic
  check       Judge captured exchanges from a file against a contract
  mcp         Run an MCP server exposing conformance checks over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasguard proxy -spec openapi.yaml -upstream http://localhost:8080 -listen :9090
  oasguard proxy -config oasguard.yaml
  oasguard check -spec openapi.yaml exchanges.json
  oasguard mcp

Run 'oasguard <command> --help' for more information on a command.`)
}
