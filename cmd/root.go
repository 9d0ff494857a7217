// Package cmd provides the command-line interface for sshd-command.
//
// The binary is a one-shot helper invoked by sshd as an AuthorizedKeysCommand
// or AuthorizedPrincipalsCommand: it reads one template file, renders it
// against the token values sshd passed, and exits. Configuration comes from
// flags and SSHD_COMMAND_* environment variables (e.g. SSHD_COMMAND_LOG_LEVEL).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vdbe/sshd-command/internal/frontmatter"
	"github.com/vdbe/sshd-command/internal/identity"
	"github.com/vdbe/sshd-command/internal/logging"
	"github.com/vdbe/sshd-command/internal/render"
	"github.com/vdbe/sshd-command/internal/tokens"
	"github.com/vdbe/sshd-command/internal/version"
)

// newRootCmd builds the whole CLI: one command, mode selected by flags,
// matching the AuthorizedKeysCommand calling convention of a path plus
// expanded tokens. Each call returns a command with fresh flag state.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sshd-command [flags] <template> [token-value ...]",
		Short: "Render SSH principals and authorized keys from templated files",
		Long: `sshd-command renders AuthorizedPrincipalsCommand and AuthorizedKeysCommand
output from template files.

A template file starts with a YAML front-matter block between "---" lines.
The reserved sshd_command mapping declares the minimum program version, the
command (principals or keys), the sshd_config(5) tokens the daemon passes,
and the optional hostname and complete_user features. Every other key in the
block is passed to the template context verbatim. The rest of the file is the
template body.

Examples:
  sshd-command /etc/ssh/principals.tpl 1000 user   Render for uid 1000, user "user"
  sshd-command --validate /etc/ssh/principals.tpl  Validate the front matter only
  sshd-command --check /etc/ssh/principals.tpl     Validate and test-render`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         run,
		Version:      version.GetBuildInfo().String(),
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("validate", "v", false,
		"validate the template front matter and exit")
	cmd.Flags().BoolP("check", "c", false,
		"validate, then render against placeholder values to a discard writer (superset of --validate)")
	cmd.PersistentFlags().String("log-level", "warn",
		"log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.SetVersionTemplate("sshd-command {{.Version}}\n")

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig binds SSHD_COMMAND_* environment variables so sshd_config can
// stay free of flag noise (e.g. SSHD_COMMAND_LOG_LEVEL=debug).
func initConfig() {
	viper.SetEnvPrefix("SSHD_COMMAND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.New(viper.GetString("log-level"))

	validateMode, _ := cmd.Flags().GetBool("validate")
	checkMode, _ := cmd.Flags().GetBool("check")

	programVersion, err := version.Semver()
	if err != nil {
		return err
	}

	templatePath := args[0]
	tokenArgs := args[1:]

	content, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	front, body, err := frontmatter.Split(string(content))
	if err != nil {
		return err
	}

	fm, err := frontmatter.Parse(front)
	if err != nil {
		return err
	}

	if err := fm.Validate(programVersion); err != nil {
		return err
	}
	logger.Debug("front matter validated",
		"template", templatePath,
		"command", fm.Command.String(),
		"tokens", len(fm.Tokens))

	if validateMode && !checkMode {
		return nil
	}

	out := cmd.OutOrStdout()
	source := identity.NewOSSource()

	if checkMode {
		// Check mode proves the template renders without depending on the
		// machine it runs on: placeholder token values, placeholder identity,
		// output discarded.
		if len(tokenArgs) == 0 {
			tokenArgs = tokens.PlaceholderArgs(fm.Tokens)
		}
		source = identity.Placeholder()
		out = io.Discard
	}

	ctx, err := render.BuildContext(fm, tokenArgs, source)
	if err != nil {
		return err
	}
	logger.Debug("render context assembled", "keys", len(ctx))

	return render.Render(out, templatePath, body, ctx)
}
