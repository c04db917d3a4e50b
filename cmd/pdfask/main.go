package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "chat":
			chatCmd := flag.NewFlagSet("chat", flag.ExitOnError)
			chatCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: pdfask chat [flags] file.pdf\n\nChat about a PDF in the terminal.\n\nFlags:\n")
				chatCmd.PrintDefaults()
			}
			opts := registerCommon(chatCmd)
			_ = chatCmd.Parse(os.Args[2:])

			if chatCmd.NArg() != 1 {
				chatCmd.Usage()
				os.Exit(1)
			}

			exitOnError(withRuntime(opts, logFile, func(ctx context.Context, rt *runtime) error {
				return runChat(ctx, rt, chatCmd.Arg(0))
			}))

			return
		case "config":
			configCmd := flag.NewFlagSet("config", flag.ExitOnError)
			configCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: pdfask config [flags]\n\nEdit the settings interactively.\n\nFlags:\n")
				configCmd.PrintDefaults()
			}
			opts := registerCommon(configCmd)
			_ = configCmd.Parse(os.Args[2:])

			exitOnError(withRuntime(opts, logStderr, runConfig))

			return
		case "ask":
			askCmd := flag.NewFlagSet("ask", flag.ExitOnError)
			askCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: pdfask ask -page N -rect x1,y1,x2,y2 [flags] file.pdf [question]\n\nRecognize one region and print the reply.\n\nFlags:\n")
				askCmd.PrintDefaults()
			}
			opts := registerCommon(askCmd)
			page := askCmd.Int("page", 1, "page number (1-based)")
			rect := askCmd.String("rect", "", "region in page pixels at -scale, as x1,y1,x2,y2")
			scale := askCmd.Float64("scale", 1.5, "render scale the rectangle refers to")
			_ = askCmd.Parse(os.Args[2:])

			if askCmd.NArg() < 1 || *rect == "" {
				askCmd.Usage()
				os.Exit(1)
			}

			req := askRequest{
				path:     askCmd.Arg(0),
				page:     *page,
				rect:     *rect,
				scale:    *scale,
				question: joinArgs(askCmd.Args()[1:]),
			}
			exitOnError(withRuntime(opts, logStderr, func(ctx context.Context, rt *runtime) error {
				return runAsk(ctx, rt, req, os.Stdout)
			}))

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pdfask [flags] [file.pdf]\n       pdfask <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  chat    Chat about a PDF in the terminal\n  config  Edit the settings interactively\n  ask     Recognize one region and print the reply\n")
	}

	opts := registerCommon(flag.CommandLine)
	flag.Parse()

	exitOnError(withRuntime(opts, logStderr|logFile, func(ctx context.Context, rt *runtime) error {
		return runDesktop(ctx, rt, flag.Arg(0))
	}))
}

// commonOpts are the flags every command accepts.
type commonOpts struct {
	configPath *string
	envFile    *string
	verbose    *bool
}

func registerCommon(fs *flag.FlagSet) commonOpts {
	return commonOpts{
		configPath: fs.String("config", "", "path to the settings file (default: <user config dir>/pdfask/config.json)"),
		envFile:    fs.String("env", ".env", "path to .env file (ignored if missing)"),
		verbose:    fs.Bool("verbose", false, "log debug output"),
	}
}

// withRuntime loads the environment, builds the runtime and runs fn with a
// context cancelled on SIGINT or SIGTERM.
func withRuntime(opts commonOpts, sinks logSinks, fn func(context.Context, *runtime) error) error {
	if err := loadDotEnv(*opts.envFile); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, *opts.configPath, *opts.verbose, sinks)
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(ctx, rt)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
