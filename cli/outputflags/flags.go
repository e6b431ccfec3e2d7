// Package outputflags selects and opens the output of a command.
package outputflags

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"golang.org/x/term"
)

var Formats = []string{"json", "text", "yaml"}

type Flags struct {
	// DefaultFormat is used when -f is not given.  If empty, the default
	// is text on a terminal and json otherwise.
	DefaultFormat string
	Format        string
	jsonPretty    bool
	outputFile    string
	pretty        int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "f", f.DefaultFormat, "format for output data [json,text,yaml]")
	fs.BoolVar(&f.jsonPretty, "J", false, "use formatted JSON output independent of -f option")
	fs.StringVar(&f.outputFile, "o", "", "write data to output file")
	fs.IntVar(&f.pretty, "pretty", 4, "tab size to pretty print JSON output (0 for newline-delimited output)")
}

func (f *Flags) Init() error {
	if f.jsonPretty {
		if f.Format != f.DefaultFormat {
			return errors.New("cannot use -J with -f")
		}
		f.Format = "json"
		if f.pretty == 0 {
			f.pretty = 4
		}
	}
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.Format == "" {
		f.Format = "json"
		if f.outputFile == "" && IsTerminalFile(os.Stdout) {
			f.Format = "text"
		}
	}
	if !slices.Contains(Formats, f.Format) {
		return fmt.Errorf("unknown output format %q", f.Format)
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns the output file or standard output.
func (f *Flags) Open() (io.WriteCloser, error) {
	if f.outputFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(f.outputFile)
}

// Marshal encodes v in the selected format.  The text format uses v's
// String method.
func (f *Flags) Marshal(v any) ([]byte, error) {
	switch f.Format {
	case "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		if f.pretty > 0 {
			enc.SetIndent("", fmt.Sprintf("%*s", f.pretty, ""))
		}
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, err
		}
		return append([]byte("---\n"), b...), nil
	case "text":
		if s, ok := v.(fmt.Stringer); ok {
			return []byte(s.String()), nil
		}
		return fmt.Appendf(nil, "%v\n", v), nil
	}
	return nil, fmt.Errorf("unknown output format %q", f.Format)
}

func IsTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
