// Command containust is the CLI external collaborator spec.md names:
// the core packages (internal/...) never import this binary, only the
// reverse. Structure follows the teacher's cmd/sand layout almost
// verbatim: one <verb>_cmd.go file per verb, a Context threading the
// resolved data directory, composition/state file paths and offline flag
// into every command's Run method (each command builds its own backend),
// kong for flag parsing, and slog for structured logging
// (SPEC_FULL §4.12, §9).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"github.com/posener/complete"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/backend/linuxbackend"
	"github.com/containust/containust/internal/backend/vmbackend"
)

// CLI is kong's top-level flag/command struct. Verbs mirror spec §6's
// external CLI contract: build, plan, run, ps, stop, exec, logs, images,
// convert, plus version and completion as ambient additions.
type CLI struct {
	File      string `short:"f" default:"containust.ctst" placeholder:"<path>" help:"composition file to operate on"`
	StateFile string `placeholder:"<path>" help:"override the state file path instead of deriving it from the composition file's project directory"`
	Offline   bool   `help:"never reach the network; fail fast if a required asset (VM kernel/initramfs, remote image manifest) is not already cached"`
	LogFile   string `placeholder:"<path>" help:"structured log file (JSON); defaults to stderr"`
	LogLevel  string `default:"info" enum:"debug,info,warn,error" help:"logging level"`

	Build      BuildCmd            `cmd:"" help:"parse a composition file and print a summary"`
	Plan       PlanCmd             `cmd:"" help:"parse, resolve, and print the deploy order"`
	Run        RunCmd              `cmd:"" help:"deploy a composition and wait for SIGINT"`
	Ps         PsCmd               `cmd:"" help:"list containers"`
	Stop       StopCmd             `cmd:"" help:"stop containers"`
	Exec       ExecCmd             `cmd:"" help:"execute a command inside a running container"`
	Logs       LogsCmd             `cmd:"" help:"show a container's logs"`
	Images     ImagesCmd           `cmd:"" help:"inspect or manage the image catalog"`
	Convert    ConvertCmd          `cmd:"" help:"convert a docker-compose file to CTST"`
	Version    VersionCmd          `cmd:"" help:"print version information"`
	Completion kongcompletion.Cmd  `cmd:"" help:"print shell completion scripts"`
}

// Context is threaded into every command's Run method, the way the
// teacher threads its Context into every <Verb>Cmd.Run (cmd/sand/main.go).
type Context struct {
	DataDir         string
	CompositionFile string
	StateFile       string
	Offline         bool
}

func (c *CLI) initSlog() *os.File {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w *os.File = os.Stderr
	var handler slog.Handler
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err == nil {
			rotated := &lumberjack.Logger{
				Filename:   c.LogFile,
				MaxSize:    50, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
			handler = slog.NewJSONHandler(rotated, &slog.HandlerOptions{Level: level})
		}
	}
	if handler == nil {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
	return w
}

// dataDir resolves the VM asset cache / application home directory
// (spec §4.10, §6: "<home>/.containust/cache/vm"), using
// mitchellh/go-homedir as a fallback alongside os.UserHomeDir the way
// SPEC_FULL's DOMAIN STACK describes.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home, err = homedirFallback()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
	}
	dir := filepath.Join(home, ".containust")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}

// selectBackend picks the Linux native backend when it is available on
// this host, falling back to the VM-proxied backend otherwise (spec §9
// "the engine's backend selector ensures stubs are never called on
// their home platform").
func selectBackend(dir string, offline bool) (backend.Backend, error) {
	lb := linuxbackend.NewBackend(dir)
	if lb.IsAvailable() {
		return lb, nil
	}

	agent, err := embeddedAgentBinary()
	if err != nil {
		return nil, err
	}
	vb := vmbackend.NewBackend(agent, offline)
	if !vb.IsAvailable() {
		return nil, fmt.Errorf("no usable backend: not running on Linux, and qemu is not installed " +
			"(install qemu-system for your architecture, e.g. `brew install qemu` or `apt install qemu-system`)")
	}
	return vb, nil
}

const description = `Deploy declarative container compositions (CTST) without a daemon.

containust parses a .ctst composition file describing components, their
images, resource limits, environment, and inter-component dependencies,
then deploys them as isolated Linux containers, or, on hosts lacking
Linux isolation primitives, inside a lightweight VM this binary boots on
demand.`

func main() {
	if len(os.Args) >= 3 && os.Args[1] == linuxbackend.InitSubcommand {
		fmt.Fprintln(os.Stderr, linuxbackend.RunInit(os.Args[2]))
		os.Exit(1)
	}
	if len(os.Args) >= 3 && os.Args[1] == linuxbackend.ExecSubcommand {
		pid, err := strconv.Atoi(os.Args[2])
		if err == nil {
			err = linuxbackend.RunExec(pid, os.Args[3:])
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI

	parser := kong.Must(&cli,
		kong.Configuration(kongyaml.Loader, ".containust.yaml", "~/.containust.yaml"),
		kong.Description(description),
		kong.UsageOnError(),
	)
	kongcompletion.Register(parser,
		kongcompletion.WithPredictor("ctst-file", complete.PredictFiles("*.ctst")),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cli.initSlog()
	slog.Info("containust: starting", "command", kctx.Command())

	if strings.HasPrefix(kctx.Command(), "completion") || strings.HasPrefix(kctx.Command(), "version") {
		kctx.FatalIfErrorf(kctx.Run(&Context{}))
		return
	}

	dir, err := dataDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runErr := kctx.Run(&Context{
		DataDir:         dir,
		CompositionFile: cli.File,
		StateFile:       cli.StateFile,
		Offline:         cli.Offline,
	})
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
