// Command console-host is a terminal for talking to a touchless console over
// serial. Typed lines are sent as-is; lines from the console are printed as
// they arrive.
//
// Usage:
//
//	console-host [flags]
//
// Flags:
//
//	-port string       Serial port (default "/dev/ttyUSB0")
//	-baud int          Baud rate (default 9600)
//	-handshake         Send a handshake on connect (default true)
//	-trace string      Print a capture file and exit
//	-log-level string  Log level: debug, info, warn, error (default "info")
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"touchless-console/capture"
	"touchless-console/protocol"
	"touchless-console/serialport"
	"touchless-console/types"
)

const pollInterval = 5 * time.Millisecond

var (
	port      string
	baud      int
	handshake bool
	traceFile string
	logLevel  string
)

func init() {
	flag.StringVar(&port, "port", "/dev/ttyUSB0", "Serial port")
	flag.IntVar(&baud, "baud", 9600, "Baud rate")
	flag.BoolVar(&handshake, "handshake", true, "Send a handshake on connect")
	flag.StringVar(&traceFile, "trace", "", "Print a capture file and exit")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if traceFile != "" {
		if err := dumpTrace(os.Stdout, traceFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := types.NewLogger(logLevel, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "console> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatalf("failed to create readline: %v", err)
	}
	defer rl.Close()
	logger.SetOutput(rl.Stderr())

	link, err := serialport.Open(port, baud, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer link.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	link.Start(ctx)
	go printInbound(ctx, link, rl.Stdout())

	if handshake {
		send(link, protocol.HandshakeToken, logger)
	}
	repl(ctx, rl, link, logger)
}

func repl(ctx context.Context, rl *readline.Instance, link *serialport.Link, logger logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		input := strings.TrimSpace(line)
		switch input {
		case "":
			continue
		case "quit", "exit":
			return
		}
		send(link, input, logger)
	}
}

func send(w io.StringWriter, line string, logger logrus.FieldLogger) {
	if _, err := w.WriteString(line + string(protocol.Terminator)); err != nil {
		logger.WithError(err).Warn("Failed to write to console")
	}
}

// printInbound echoes every complete line received from the console.
func printInbound(ctx context.Context, link *serialport.Link, out io.Writer) {
	var buf strings.Builder
	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		for {
			b, ok := link.Next()
			if !ok {
				break
			}
			if line, done := collect(&buf, b); done && line != "" {
				fmt.Fprintln(out, describe(line))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// collect appends b to buf and returns the finished line at a terminator.
func collect(buf *strings.Builder, b byte) (string, bool) {
	switch b {
	case protocol.Terminator:
		line := buf.String()
		buf.Reset()
		return line, true
	case '\r':
		return "", false
	}
	buf.WriteByte(b)
	return "", false
}

// describe renders a console line for the terminal.
func describe(line string) string {
	switch line {
	case protocol.ReadyToken:
		return "<- ready (console armed)"
	case protocol.HeartbeatToken:
		return "<- heartbeat"
	}
	msg, ok := protocol.ParseLine(line)
	if !ok || msg.Kind != protocol.Command {
		return "<- " + line
	}
	return fmt.Sprintf("<- %s = %d", msg.Address, msg.Value)
}

func dumpTrace(w io.Writer, path string) error {
	recs, err := capture.ReadFile(path)
	if err != nil {
		return err
	}
	session := ""
	for _, rec := range recs {
		if rec.Session != session {
			session = rec.Session
			fmt.Fprintf(w, "# session %s\n", session)
		}
		fmt.Fprintln(w, capture.Format(rec))
	}
	return nil
}
