// Package main implements the agentcrew CLI.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/hupe1980/agentcrew"
	"github.com/hupe1980/agentcrew/config"
	"github.com/spf13/cobra"
)

// version information
var version = "dev"

// errFailed signals a failure whose message was already printed.
var errFailed = errors.New("failed")

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// crewOptions lets tests inject collaborators into every crew the CLI builds.
var crewOptions []func(o *agentcrew.Options)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "agentcrew",
		Short: "Multi-agent orchestration for code and documentation tasks",
		Long: `agentcrew coordinates LLM-backed agents around a git working copy.

Configuration is read from built-in defaults, an optional YAML file (--config)
and the environment (OLLAMA_URL, OLLAMA_API, AGENT_MODEL, DEV_MODEL,
PLANNER_MODEL, WRITER_MODEL, TEST_COMMAND and AGENTCREW_<SECTION>_<FIELD>).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newRunCmd(flags),
		newLoopCmd(flags),
		newPlanCmd(flags),
		newWriteCmd(flags),
		newTestCmd(flags),
		newVersionCmd(),
	)
	return root
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	return cfg, nil
}

func newCrew(flags *globalFlags, optFns ...func(o *agentcrew.Options)) (*agentcrew.Crew, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return agentcrew.New(cfg, append(append([]func(o *agentcrew.Options){}, crewOptions...), optFns...)...)
}

// readInput joins args, or prompts for one line on stdin when args is empty.
func readInput(cmd *cobra.Command, args []string, prompt string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "agentcrew", version)
		},
	}
}
