// Command coral runs Coral programs and provides an interactive REPL.
//
//	coral                  start a REPL
//	coral prog.coral       run a file
//	coral -e '1 + 2;'      evaluate an expression
//	coral -mode legacy     force the legacy syntax
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"coral/pkg/driver"
	"coral/pkg/errors"
	"coral/pkg/object"
)

func main() {
	var (
		expr       = flag.String("e", "", "evaluate the given source and exit")
		mode       = flag.String("mode", "auto", "syntax mode: legacy, modern or auto")
		configPath = flag.String("config", "coral.yaml", "path to the config file")
	)
	flag.Parse()

	cfg, err := driver.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mode != "auto" {
		cfg.Mode = *mode
	}
	if _, err := driver.ParseMode(cfg.Mode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session := driver.NewSession(object.NewMemStore(), cfg)

	switch {
	case *expr != "":
		os.Exit(runOnce(session, "<arg>", *expr))
	case flag.NArg() > 0:
		os.Exit(runFile(session, flag.Arg(0)))
	default:
		repl(session)
	}
}

func runOnce(session *driver.Session, name, src string) int {
	v, errs := session.RunString(name, src)
	if len(errs) > 0 {
		errors.Display(os.Stderr, src, errs)
		return 1
	}
	driver.DisplayResult(os.Stdout, v)
	return 0
}

func runFile(session *driver.Session, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return runOnce(session, path, string(data))
}

// repl reads units line by line, using the completeness predicate to
// decide when the collected input is ready to submit.
func repl(session *driver.Session) {
	fmt.Println("coral repl, ctrl-d to exit")
	scanner := bufio.NewScanner(os.Stdin)
	var pending []string

	for {
		if len(pending) == 0 {
			fmt.Print("> ")
		} else {
			fmt.Print(".. ")
		}
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if len(pending) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		pending = append(pending, line)

		src := strings.Join(pending, "\n")
		if session.Incomplete(src) {
			continue
		}
		pending = pending[:0]

		v, errs := session.RunString("<repl>", src)
		if len(errs) > 0 {
			errors.Display(os.Stderr, src, errs)
			continue
		}
		driver.DisplayResult(os.Stdout, v)
	}
}
