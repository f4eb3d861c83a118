package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gvariant"
	"github.com/wippyai/gvariant/codec"
	"github.com/wippyai/gvariant/signature"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to a serialized payload")
		hexStr      = flag.String("hex", "", "Inline hex payload (spaces allowed)")
		typeSig     = flag.String("type", "", "Type signature to decode against, e.g. a{sv}")
		verbose     = flag.Bool("v", false, "Verbose codec logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		lg, err := zap.NewDevelopment()
		if err == nil {
			codec.SetLogger(lg)
		}
	}

	if *interactive {
		if err := runInteractive(*typeSig, *hexStr, *file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *typeSig == "" || (*file == "" && *hexStr == "") {
		fmt.Fprintln(os.Stderr, "Usage: gvdump -type <signature> -file <payload>")
		fmt.Fprintln(os.Stderr, "       gvdump -type <signature> -hex <bytes>")
		fmt.Fprintln(os.Stderr, "       gvdump -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*typeSig, *hexStr, *file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(typeSig, hexStr, file string) error {
	data, err := loadPayload(hexStr, file)
	if err != nil {
		return err
	}

	sig, err := signature.Parse(typeSig)
	if err != nil {
		return err
	}

	value, err := gvariant.Deserialize(data, string(sig))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// No styling when piped.
		fmt.Printf("%s %d bytes\n%s\n", sig, len(data), renderPlain(value))
		return nil
	}

	fmt.Printf("%s %s\n\n", titleStyle.Render(string(sig)), helpStyle.Render(fmt.Sprintf("%d bytes", len(data))))
	fmt.Println(renderValue(value, 0))
	return nil
}

func loadPayload(hexStr, file string) ([]byte, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}
	return parseHex(hexStr)
}

func parseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', ',':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

// renderValue pretty-prints a decoded value tree with one node per line.
func renderValue(v any, depth int) string {
	pad := strings.Repeat("  ", depth)

	switch val := v.(type) {
	case nil:
		return pad + nothingStyle.Render("nothing")

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(pad + "{\n")
		for _, k := range keys {
			b.WriteString(pad + "  " + keyStyle.Render(k) + ":\n")
			b.WriteString(renderValue(val[k], depth+2))
			b.WriteString("\n")
		}
		b.WriteString(pad + "}")
		return b.String()

	case []any:
		if len(val) == 0 {
			return pad + "[]"
		}
		var b strings.Builder
		b.WriteString(pad + "[\n")
		for _, item := range val {
			b.WriteString(renderValue(item, depth+1))
			b.WriteString("\n")
		}
		b.WriteString(pad + "]")
		return b.String()

	case codec.Boxed:
		var b strings.Builder
		b.WriteString(pad + typeStyle.Render("<"+string(val.Sig)+">") + "\n")
		b.WriteString(renderValue(val.Value, depth+1))
		return b.String()

	case codec.EnumValue:
		return pad + enumStyle.Render(val.Nick) + helpStyle.Render(fmt.Sprintf(" (%d)", val.Disc))

	case codec.FlagsValue:
		return pad + enumStyle.Render(val.Wire) + helpStyle.Render(fmt.Sprintf(" (0x%x)", val.Bits))

	case string:
		return pad + strStyle.Render(fmt.Sprintf("%q", val))

	case signature.Signature:
		return pad + typeStyle.Render(string(val))

	case bool:
		return pad + numStyle.Render(fmt.Sprintf("%v", val))

	default:
		return pad + numStyle.Render(fmt.Sprintf("%v", val))
	}
}

func renderPlain(v any) string {
	switch val := v.(type) {
	case codec.Boxed:
		return fmt.Sprintf("<%s> %s", val.Sig, renderPlain(val.Value))
	case codec.EnumValue:
		return val.Nick
	case codec.FlagsValue:
		return val.Wire
	default:
		return fmt.Sprintf("%#v", v)
	}
}
