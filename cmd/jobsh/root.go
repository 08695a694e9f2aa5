package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobsh"
	"jobsh/config"
)

var (
	cfgPath     string
	quiet       bool
	commandLine string
	exitCode    int
)

// rootCmd runs the shell: interactively, on a script file, or on -c.
var rootCmd = &cobra.Command{
	Use:          "jobsh [script]",
	Short:        "A job-control shell",
	Long:         `jobsh runs pipelines, && / || chains, ; sequences and & background jobs, each job group in its own process group.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if quiet {
			cfg.Quiet = true
		}
		jobsh.SetDebug(cfg.Debug)

		sh, err := newShell(cfg)
		if err != nil {
			return err
		}
		defer sh.Close()

		switch {
		case cmd.Flags().Changed("command"):
			exitCode = sh.eval(commandLine)
			sh.jobs.Wait()
		case len(args) == 1:
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			exitCode = sh.runScript(f)
		default:
			exitCode = sh.interactive()
		}
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return 127
		}
		return 2
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/jobsh/config.yaml)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print prompts")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
