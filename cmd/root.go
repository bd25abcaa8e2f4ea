package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/minishell/commands"
	"github.com/josephlewis42/minishell/core/config"
	"github.com/josephlewis42/minishell/core/logger"
	"github.com/josephlewis42/minishell/core/shell"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgPath string
	command string
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd runs the shell when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "minishell",
	Short: "A small interactive shell",
	Long: `An interactive shell supporting pipelines, redirections, here-documents
and variable expansion.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.LoadOrDefault(cfgPath)
		if err != nil {
			return err
		}

		status, err := runShell(cfg)
		if err != nil {
			return err
		}
		os.Exit(status)
		return nil
	},
}

func runShell(cfg *config.Configuration) (int, error) {
	commands.ProgramName = cfg.ProgramName

	interactive := command == "" &&
		term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stderr.Fd()))

	recorder := logger.NopLogger()
	logFd, err := cfg.OpenEventLog()
	if err != nil {
		return 1, err
	}
	if logFd != nil {
		defer logFd.Close()
		recorder = logger.NewJsonLinesLogRecorder(logFd)
	}

	self, err := os.Executable()
	if err != nil {
		return 1, err
	}

	signals := shell.NewSignalController(os.Stderr)
	signals.Start()
	defer signals.Stop()

	opts := shell.Options{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Environ:        os.Environ(),
		Config:         cfg,
		Signals:        signals,
		Log:            recorder.NewSession(),
		BuiltinCommand: shell.ReexecBuiltin(self),
		Interactive:    interactive,
		Color:          useColor(cfg.Color, interactive),
	}

	if interactive {
		editor, err := shell.NewReadlineEditor(shell.EditorConfig{
			Stdin:        os.Stdin,
			Stdout:       os.Stdout,
			Stderr:       os.Stderr,
			HistoryFile:  cfg.HistoryPath(),
			HistoryLimit: cfg.HistoryLimit,
			IsTerminal:   func() bool { return true },
		})
		if err != nil {
			return 1, err
		}
		defer editor.Close()
		opts.Editor = editor
	}

	sh := shell.New(opts)
	if command == "" {
		return sh.Run(), nil
	}

	status := sh.RunLine(command)
	if code, ok := sh.ExitCode(); ok {
		return code, nil
	}
	return status, nil
}

func useColor(mode string, interactive bool) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return interactive && !color.NoColor
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single line and exit")
}
