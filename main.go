// schtask registers Windows scheduled tasks that start a program when
// the current user logs on.
//
// The task scheduler class and interfaces are looked up by description
// in the registration database on every run. An existing task with the
// same name is replaced.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/abubakar-alt/schtask/backend/bridge"
	"github.com/abubakar-alt/schtask/backend/scheduler"
	"github.com/abubakar-alt/schtask/backend/storage"
)

// exitError carries a process exit code without an extra message; the
// task results are already on stdout.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitError) ExitCode() int { return int(e) }

func main() {
	if err := run(os.Args[1:]); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type invocation struct {
	label string
	name  string
	exe   string
	args  *string
}

func run(argv []string) error {
	var name, exe, args string
	var configPath, logLevel string
	var examples bool

	flagSet := pflag.NewFlagSet("schtask", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "task name")
	flagSet.StringVar(&exe, "exe", "", "path of the executable to run at logon")
	flagSet.StringVar(&args, "args", "", "arguments passed to the executable (omit for none)")
	flagSet.StringVar(&configPath, "config", "", "config file (default: $"+storage.EnvConfig+" or the user config dir)")
	flagSet.StringVar(&logLevel, "log-level", "", "override log.level: debug, info, warn, error")
	flagSet.BoolVar(&examples, "examples", false, "create the two example notepad tasks")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	var invocations []invocation
	if examples {
		invocations = exampleInvocations()
	} else {
		if name == "" || exe == "" {
			return fmt.Errorf("--name and --exe are required (or use --examples)")
		}
		inv := invocation{name: name, exe: exe}
		// An empty --args is still passed through; only an absent flag
		// leaves the action without arguments.
		if flagSet.Changed("args") {
			inv.args = &args
		}
		invocations = append(invocations, inv)
	}

	store, err := storage.NewStore(configPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	if err := store.Load(); err != nil {
		return err
	}
	cfg := store.Data
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("configuration loaded", "path", store.Path())

	app := bridge.NewApp(cfg, logger)
	failed := 0
	for _, inv := range invocations {
		result := app.CreateTask(inv.name, inv.exe, inv.args)
		if inv.label != "" {
			fmt.Printf("%s: %s\n", inv.label, result)
		} else {
			fmt.Println(result)
		}
		if result != scheduler.SuccessMessage {
			failed++
		}
	}
	if failed > 0 {
		return exitError(1)
	}
	return nil
}

func exampleInvocations() []invocation {
	const notepad = `C:\Windows\System32\notepad.exe`
	hosts := `C:\Windows\System32\drivers\etc\hosts`
	return []invocation{
		{label: "Task without arguments", name: "MyTask", exe: notepad},
		{label: "Task with arguments", name: "MyTaskWithArgs", exe: notepad, args: &hosts},
	}
}

// newLogger writes JSON records to the configured file, or to stderr.
func newLogger(cfg storage.LogConfig) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `schtask creates a scheduled task that runs a program at logon.

Usage:
  schtask --name NAME --exe PATH [--args ARGS] [flags]
  schtask --examples

Examples:
  # Open notepad at logon
  schtask --name MyTask --exe C:\Windows\System32\notepad.exe

  # Open the hosts file in notepad at logon
  schtask --name MyTaskWithArgs --exe C:\Windows\System32\notepad.exe --args C:\Windows\System32\drivers\etc\hosts

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
