package hypod

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// RunOptions configures the Run driver.
type RunOptions struct {
	// FilePre is a config file applied before command-line assignments.
	// Optional.
	FilePre string

	// FilePost is a config file applied after command-line assignments,
	// overriding them. Optional.
	FilePost string

	// Args are the command-line tokens to interpret. Defaults to os.Args[1:].
	Args []string

	// Logger receives the constructed config at info level.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Run layers configuration sources, constructs an instance of s and hands it
// to fn. Tokens in Args starting with "--" are system options (--file-pre,
// --file-post); all other tokens are field assignments like "optim.lr=0.1".
//
// Later layers override earlier ones:
//  1. field defaults declared on the schema
//  2. the FilePre file
//  3. the --file-pre file
//  4. command-line assignments
//  5. the FilePost file
//  6. the --file-post file
func Run(s *Schema, opts RunOptions, fn func(*Instance) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	args := opts.Args
	if args == nil {
		args = os.Args[1:]
	}

	var assignments []string
	var cliPre, cliPost string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			assignments = append(assignments, arg)
			continue
		}
		opt := strings.TrimPrefix(arg, "--")
		eq := strings.Index(opt, "=")
		if eq <= 0 || eq == len(opt)-1 {
			return fmt.Errorf("%w: system option %q should look like --file-pre=path", ErrArgvFormat, arg)
		}
		key, val := opt[:eq], opt[eq+1:]
		switch key {
		case "file-pre":
			cliPre = val
		case "file-post":
			cliPost = val
		default:
			logger.Warn("ignoring unknown system option", "option", key)
		}
	}

	merged := make(map[string]any)
	if err := mergeFileLayer(merged, opts.FilePre); err != nil {
		return err
	}
	if err := mergeFileLayer(merged, cliPre); err != nil {
		return err
	}
	fromArgs, err := ParseArgv(assignments)
	if err != nil {
		return err
	}
	deepMerge(merged, fromArgs)
	if err := mergeFileLayer(merged, opts.FilePost); err != nil {
		return err
	}
	if err := mergeFileLayer(merged, cliPost); err != nil {
		return err
	}

	inst, err := s.New(merged)
	if err != nil {
		return err
	}

	logger.Info("config constructed", "schema", s.name, "dump", inst.Dump())
	return fn(inst)
}

func mergeFileLayer(dst map[string]any, path string) error {
	if path == "" {
		return nil
	}
	layer, err := loadFileMap(path)
	if err != nil {
		return err
	}
	deepMerge(dst, layer)
	return nil
}
