package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/increasinglyHuman/poqpoq/internal/compartment"
	"github.com/increasinglyHuman/poqpoq/internal/script"
	"github.com/increasinglyHuman/poqpoq/internal/wire"
	"github.com/increasinglyHuman/poqpoq/internal/worker"
)

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: tslc run <input.lsl|input.ts>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	inputFile := fs.Arg(0)
	code := inputFile
	if strings.HasSuffix(inputFile, ".lsl") {
		transpiled, err := transpileFile(inputFile, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		code = transpiled
	} else {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		code = string(data)
	}

	m := script.New(script.Options{})
	m.OnCommand(func(cmd wire.Command) (interface{}, error) {
		fmt.Printf("[command] %s %s\n", cmd.Kind, string(cmd.Payload))
		return nil, nil
	})

	const scriptID, containerID = "s1", "c1"
	endowments := worker.Endowments{
		World:     compartment.NewObject(),
		Object:    compartment.NewObject(),
		Container: compartment.NewObject(),
		Owner:     compartment.String{Value: "local-owner"},
	}
	if err := m.Load(scriptID, containerID, 1, code, endowments); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Script loaded. Commands: touch | say <channel> <message> | link <num> <str> | quit")
	repl(m, scriptID, containerID)
}

func repl(m *script.Manager, scriptID, containerID string) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			_ = m.Terminate(scriptID)
			return
		case "touch":
			if err := m.Dispatcher().DispatchContainerBroadcast(containerID, wire.EvtTouchStart, wire.TouchPayload{Agent: "local-agent", Face: 0}); err != nil {
				fmt.Println("error:", err)
			}
		case "say":
			if len(fields) < 3 {
				fmt.Println("usage: say <channel> <message>")
				continue
			}
			channel, _ := strconv.Atoi(fields[1])
			if err := m.Dispatcher().DispatchChat(channel, "local-speaker", "local-id", strings.Join(fields[2:], " ")); err != nil {
				fmt.Println("error:", err)
			}
		case "link":
			fmt.Println("note: link sends originate from scripts themselves; load a second script to exercise this")
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}
