// Command wasm-binfmt inspects and validates WebAssembly module images.
//
//	wasm-binfmt inspect module.wasm [-i]
//	wasm-binfmt validate module.wasm
//	wasm-binfmt version module.wasm
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	wasmbinfmt "github.com/wippyai/wasm-binfmt"
	"github.com/wippyai/wasm-binfmt/binfmt"
	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/config"
	"github.com/wippyai/wasm-binfmt/internal/mapfile"
	"github.com/wippyai/wasm-binfmt/memory/fault"
	"github.com/wippyai/wasm-binfmt/wasip1"
)

// errFailed marks a failure that has already been reported to the user.
var errFailed = errors.New("failed")

type options struct {
	configPath  string
	color       string
	multiValue  bool
	interactive bool
}

type app struct {
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
	opts   options
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	if err := a.root().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:               "wasm-binfmt",
		Short:             "Inspect and validate WebAssembly binary modules",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd.Flags()) },
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "path to a YAML configuration file")
	pf.StringVar(&a.opts.color, "color", "", "color output: auto, always or never")
	pf.BoolVar(&a.opts.multiValue, "multi-value", false, "enable the multi-value feature")

	inspect := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode a module and print its sections",
		Args:  cobra.ExactArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return a.inspect(args[0]) },
	}
	inspect.Flags().BoolVarP(&a.opts.interactive, "interactive", "i", false, "browse sections in a terminal UI")

	validate := &cobra.Command{
		Use:   "validate FILE",
		Short: "Decode a module and report whether it is valid",
		Args:  cobra.ExactArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return a.validate(args[0]) },
	}

	version := &cobra.Command{
		Use:   "version FILE",
		Short: "Print the binary format version of a module",
		Args:  cobra.ExactArgs(1),
		RunE:  func(_ *cobra.Command, args []string) error { return a.version(args[0]) },
	}

	root.AddCommand(inspect, validate, version)
	return root
}

// setup loads the configuration, applies flag overrides and installs loggers.
func (a *app) setup(flags *pflag.FlagSet) error {
	cfg := config.Default()
	if a.opts.configPath != "" {
		var err error
		if cfg, err = config.Load(a.opts.configPath); err != nil {
			return err
		}
	}
	if flags.Changed("multi-value") {
		cfg.Features.MultiValue = a.opts.multiValue
	}
	if flags.Changed("color") {
		cfg.Output.Color = a.opts.color
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	ver1.SetLogger(log.Named("ver1"))
	fault.SetLogger(log.Named("fault"))
	wasip1.SetLogger(log.Named("wasip1"))

	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) styles(w io.Writer) styles {
	return newStyles(w, colorEnabled(a.cfg.Output.Color, w))
}

// decode maps path and parses it. The returned release unmaps the file and
// must be called once the module is no longer used.
func (a *app) decode(path string) (mod *ver1.Module, data []byte, release func(), err error) {
	f, err := mapfile.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	release = func() { _ = f.Close() }
	data = f.Bytes()

	format, err := ver1.Compose(a.cfg.DecoderFeatures()...)
	if err != nil {
		release()
		return nil, nil, nil, errors.Wrap(err, "compose decoder")
	}
	names := make([]string, 0, len(format.Features()))
	for _, ft := range format.Features() {
		names = append(names, ft.Name())
	}
	a.log.Debug("decoding", zap.String("path", path), zap.Int("size", len(data)), zap.Strings("features", names))

	mod, err = wasmbinfmt.ParseWith(format, data)
	if err != nil {
		fmt.Fprint(a.stderr, a.styles(a.stderr).fault(path, err, data))
		release()
		return nil, nil, nil, errFailed
	}
	return mod, data, release, nil
}

func (a *app) inspect(path string) error {
	mod, data, release, err := a.decode(path)
	if err != nil {
		return err
	}
	defer release()

	sum := summarize(mod, binfmt.DetectVersion(data))
	if a.opts.interactive {
		return runBrowser(newBrowser(a.styles(a.stdout), path, data, sum))
	}
	fmt.Fprint(a.stdout, a.styles(a.stdout).summary(path, sum))
	return nil
}

func (a *app) validate(path string) error {
	_, _, release, err := a.decode(path)
	if err != nil {
		return err
	}
	defer release()

	st := a.styles(a.stdout)
	fmt.Fprintf(a.stdout, "%s %s\n", st.okTag.Render("[ok]"), path)
	return nil
}

func (a *app) version(path string) error {
	f, err := mapfile.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !binfmt.IsWasmFile(f.Bytes()) {
		st := a.styles(a.stderr)
		fmt.Fprintf(a.stderr, "%s %s: not a WebAssembly module\n", st.errTag.Render("[error]"), path)
		return errFailed
	}
	fmt.Fprintln(a.stdout, binfmt.DetectVersion(f.Bytes()))
	return nil
}
