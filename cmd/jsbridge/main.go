package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jsbridge/marshal"
	"github.com/wippyai/jsbridge/shape"
)

func main() {
	var (
		expr        = flag.String("e", "", "JavaScript expression to evaluate (read from stdin when empty)")
		typeName    = flag.String("type", "point", "Go type to decode the expression into")
		list        = flag.Bool("list", false, "List demo types and exit")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		shape.SetLogger(logger.Named("shape"))
		marshal.SetLogger(logger.Named("marshal"))
	}

	if err := registerDemos(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, d := range demos {
			fmt.Printf("  %-8s %s\n", d.name, d.about)
		}
		return
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*typeName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	src := *expr
	if src == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Usage: jsbridge -e <expression> [-type name]")
			fmt.Fprintln(os.Stderr, "       jsbridge -list")
			fmt.Fprintln(os.Stderr, "       jsbridge -i  (interactive mode)")
			os.Exit(1)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read stdin: %v\n", err)
			os.Exit(1)
		}
		src = string(data)
	}

	if err := run(src, *typeName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(src, typeName string) error {
	d, ok := lookupDemo(typeName)
	if !ok {
		return fmt.Errorf("unknown type %q (see -list)", typeName)
	}

	res, err := evaluate(goja.New(), d, src)
	if err != nil {
		return err
	}
	fmt.Printf("Go: %s\n", res.goValue)
	fmt.Printf("JS: %s\n", res.jsValue)
	return nil
}

type result struct {
	goValue string
	jsValue string
}

// evaluate runs src, decodes it into the demo type and marshals the decoded
// value back into rt.
func evaluate(rt *goja.Runtime, d demo, src string) (result, error) {
	if strings.TrimSpace(src) == "" {
		return result{}, fmt.Errorf("empty expression")
	}
	v, err := rt.RunString("(" + src + ")")
	if err != nil {
		return result{}, fmt.Errorf("evaluate: %w", err)
	}

	goValue, out, err := d.roundTrip(rt, v)
	if err != nil {
		return result{}, err
	}

	js, err := inspect(rt, out)
	if err != nil {
		return result{}, fmt.Errorf("inspect: %w", err)
	}
	return result{goValue: goValue, jsValue: js}, nil
}
