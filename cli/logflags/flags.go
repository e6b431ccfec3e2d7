// Package logflags configures a zap logger from command-line flags.
package logflags

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileMode string

const (
	FileModeAppend   FileMode = "append"
	FileModeTruncate FileMode = "truncate"
	FileModeRotate   FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	switch mode := FileMode(s); mode {
	case FileModeAppend, FileModeTruncate, FileModeRotate:
		*m = mode
		return nil
	}
	return fmt.Errorf("unsupported file mode %q", s)
}

func (m FileMode) String() string {
	return string(m)
}

type Flags struct {
	DevMode bool
	Level   zapcore.Level
	Mode    FileMode
	Path    string

	// Stderr is written to when Path is empty or "stderr".
	Stderr io.Writer
}

// SetFlags registers the -log flags.  Fields set beforehand become the
// flag defaults.
func (f *Flags) SetFlags(fs *flag.FlagSet) {
	if f.Mode == "" {
		f.Mode = FileModeAppend
	}
	fs.BoolVar(&f.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
	fs.Var(&f.Level, "log.level", "logging level")
	fs.Var(&f.Mode, "log.mode", "logging mode (append, truncate, rotate)")
	fs.StringVar(&f.Path, "log.path", "stderr", "path to send logs (values: stderr, stdout, path in file system)")
}

// Open returns a logger writing JSON lines to the configured destination.
func (f *Flags) Open() (*zap.Logger, error) {
	w, err := f.sink()
	if err != nil {
		return nil, err
	}
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), w, f.Level)
	var opts []zap.Option
	if f.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func (f *Flags) sink() (zapcore.WriteSyncer, error) {
	switch f.Path {
	case "", "stderr":
		if f.Stderr != nil {
			return zapcore.AddSync(f.Stderr), nil
		}
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}
	switch f.Mode {
	case FileModeRotate:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename: f.Path,
			MaxSize:  100,
		}), nil
	case FileModeAppend, FileModeTruncate, "":
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if f.Mode == FileModeTruncate {
			flags |= os.O_TRUNC
		}
		file, err := os.OpenFile(f.Path, flags, 0644)
		if err != nil {
			return nil, err
		}
		return zapcore.Lock(file), nil
	}
	return nil, errors.New("unsupported file mode " + string(f.Mode))
}
