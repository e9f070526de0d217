package main

import (
	"fmt"
	"os"

	"github.com/nextgenmedprep/medprep-server/cmd/commands"
)

func printCommandsList() {
	fmt.Println("Commands:")
	fmt.Println("  serve")
	fmt.Println("  prometheus")
	fmt.Println("  audit [report|sign|update]")
	fmt.Println("  migrate [up|down|force|version|drop]")
}

func main() {
	if len(os.Args) < 2 {
		printCommandsList()
		return
	}
	cmd := os.Args[1]
	os.Args = os.Args[1:]

	switch cmd {
	case "serve":
		runCommand(commands.Serve)
	case "prometheus":
		runCommand(commands.Prometheus)
	case "audit":
		runCommand(commands.Audit)
	case "migrate":
		runCommand(commands.Migrate)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printCommandsList()
		os.Exit(2)
	}
}

func runCommand(command func() error) {
	if err := command(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
