package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daimatz/gojvm/pkg/builtin"
	"github.com/daimatz/gojvm/pkg/classfile"
	"github.com/daimatz/gojvm/pkg/vm"
)

var (
	traceFlag       bool
	entryMethodFlag string
	configFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "gojvm [classfile...]",
	Short: "A minimal Java class-file interpreter",
	Long: `gojvm loads one or more compiled .class files, picks an entry
point (the last-loaded class that declares an entry method), and
executes its bytecode.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVM,
}

func init() {
	rootCmd.Flags().BoolVar(&traceFlag, "trace", false, "log every opcode and GC event")
	rootCmd.Flags().StringVar(&entryMethodFlag, "entry", "main", "name of the entry method to run")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "optional YAML file with GC/runtime tuning")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor matches spec.md §7's nonzero-exit-with-diagnostic
// contract: 1 for a malformed class file, 2 for a runtime failure,
// 1 for anything else (flag parsing, missing file, ...).
func exitCodeFor(err error) int {
	switch errors.Cause(err).(type) {
	case *classfile.TruncatedInputError, *classfile.BadConstantTagError,
		*classfile.UnresolvableConstantError, *classfile.ParseFailedError:
		return 1
	case *vm.InterpreterError:
		return 2
	default:
		return 1
	}
}

func buildLogger(trace bool) (*zap.Logger, error) {
	if !trace {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}

func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return v, nil
}

func runVM(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger(traceFlag)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer logger.Sync()

	cfg, err := loadConfig(configFlag)
	if err != nil {
		return err
	}

	roots := make(map[string]struct{})
	for _, path := range args {
		roots[filepath.Dir(path)] = struct{}{}
	}
	rootList := make([]string, 0, len(roots))
	for r := range roots {
		rootList = append(rootList, r)
	}
	loader := vm.NewUserClassLoader(rootList...)

	var loaded []*classfile.Class
	for _, path := range args {
		c, err := classfile.ParseFile(path)
		if err != nil {
			return errors.Wrapf(err, "loading %s", path)
		}
		name, err := c.ClassName()
		if err != nil {
			return errors.Wrapf(err, "resolving class name for %s", path)
		}
		loader.Preload(name, c)
		loaded = append(loaded, c)
	}

	// Entry-point selection, spec.md §6: the class defining a method
	// named entryMethodFlag is the entry point; ties broken
	// last-loaded-wins.
	var entry *classfile.Class
	for _, c := range loaded {
		if c.FindMethodByName(entryMethodFlag) != nil {
			entry = c
		}
	}
	if entry == nil {
		return errors.Errorf("no loaded class declares a %q method", entryMethodFlag)
	}

	machine := vm.New(loader, builtin.Registry(), logger)
	machine.Trace = traceFlag
	if n := cfg.GetInt("heap_last_gc_size"); n > 0 {
		machine.SetHeapLastGCSize(n)
	}

	result, err := machine.ExecuteEntry(entry, entryMethodFlag)
	if err != nil {
		return err
	}
	if traceFlag {
		logger.Info("execution finished", zap.String("result", fmt.Sprint(result)))
	}
	return nil
}
