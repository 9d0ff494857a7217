// Package frontmatter splits template files into configuration and body and
// parses the configuration into a validated, typed model.
//
// The reserved configuration lives under the nested sshd_command mapping;
// every other top-level key in the block is opaque extra context handed to
// the template verbatim. That keeps keys like "hostname" usable as template
// data without colliding with the hostname feature flag.
package frontmatter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/vdbe/sshd-command/internal/tokens"
)

// Command selects which sshd_config option the template serves.
type Command uint8

const (
	// CommandPrincipals serves AuthorizedPrincipalsCommand.
	CommandPrincipals Command = iota

	// CommandKeys serves AuthorizedKeysCommand.
	CommandKeys
)

// String returns the sshd_config option name for the command.
func (c Command) String() string {
	switch c {
	case CommandKeys:
		return "AuthorizedKeysCommand"
	case CommandPrincipals:
		return "AuthorizedPrincipalsCommand"
	default:
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
}

// UnmarshalYAML decodes "principals" or "keys".
func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return &SchemaError{Field: "command", Reason: "expected a string"}
	}

	switch name {
	case "principals":
		*c = CommandPrincipals
	case "keys":
		*c = CommandKeys
	default:
		return &SchemaError{
			Field:  "command",
			Reason: fmt.Sprintf("%q is not one of \"principals\", \"keys\"", name),
		}
	}
	return nil
}

// Supports reports whether sshd passes the token to this command, per the
// TOKENS section of sshd_config(5). AuthorizedPrincipalsCommand accepts the
// full vocabulary; AuthorizedKeysCommand lacks the certificate-only tokens.
func (c Command) Supports(t tokens.Token) bool {
	if c == CommandPrincipals {
		return true
	}

	switch t {
	case tokens.FingerprintCAKey,
		tokens.CertificateKeyID,
		tokens.CAKeyBase64,
		tokens.CertificateSerial,
		tokens.CAKeyType:
		return false
	default:
		return true
	}
}

// TokenList is the ordered token declaration. The YAML form is either a
// space-separated scalar ('%U %u') or a sequence of symbols.
type TokenList []tokens.Token

// UnmarshalYAML decodes a scalar or sequence of token symbols.
func (l *TokenList) UnmarshalYAML(value *yaml.Node) error {
	var symbols []string

	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return &SchemaError{Field: "tokens", Reason: "expected a string or sequence"}
		}
		symbols = strings.Fields(s)
	case yaml.SequenceNode:
		if err := value.Decode(&symbols); err != nil {
			return &SchemaError{Field: "tokens", Reason: "expected a string or sequence"}
		}
	default:
		return &SchemaError{Field: "tokens", Reason: "expected a string or sequence"}
	}

	list := make(TokenList, 0, len(symbols))
	for _, symbol := range symbols {
		token, err := tokens.Parse(symbol)
		if err != nil {
			return err
		}
		list = append(list, token)
	}

	*l = list
	return nil
}

// FrontMatter is the parsed configuration block of a template file.
type FrontMatter struct {
	// MinVersion is the minimum sshd-command version the template requires.
	MinVersion *semver.Version

	Command      Command
	Tokens       []tokens.Token
	Hostname     bool
	CompleteUser bool

	// Extra holds every top-level key outside the sshd_command namespace,
	// passed to the render context verbatim.
	Extra map[string]any
}

type rawConfig struct {
	Version      string    `yaml:"version"`
	MinVersion   string    `yaml:"min_version"`
	Command      *Command  `yaml:"command"`
	Tokens       TokenList `yaml:"tokens"`
	Hostname     bool      `yaml:"hostname"`
	CompleteUser bool      `yaml:"complete_user"`
}

type document struct {
	Config *rawConfig     `yaml:"sshd_command"`
	Extra  map[string]any `yaml:",inline"`
}

// Parse deserializes a front-matter segment produced by Split. It checks
// structure only; call Validate for the semantic rules.
func Parse(raw string) (*FrontMatter, error) {
	decoder := yaml.NewDecoder(strings.NewReader(raw))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		var schemaErr *SchemaError
		var tokenErr *tokens.UnknownTokenError
		if errors.As(err, &schemaErr) || errors.As(err, &tokenErr) {
			return nil, err
		}
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	if doc.Config == nil {
		return nil, &SchemaError{Field: "sshd_command", Reason: "required mapping is missing"}
	}

	minVersion, err := parseMinVersion(doc.Config)
	if err != nil {
		return nil, err
	}

	if doc.Config.Command == nil {
		return nil, &SchemaError{Field: "command", Reason: "required field is missing"}
	}

	if len(doc.Config.Tokens) == 0 {
		return nil, &SchemaError{Field: "tokens", Reason: "at least one token is required"}
	}

	return &FrontMatter{
		MinVersion:   minVersion,
		Command:      *doc.Config.Command,
		Tokens:       []tokens.Token(doc.Config.Tokens),
		Hostname:     doc.Config.Hostname,
		CompleteUser: doc.Config.CompleteUser,
		Extra:        doc.Extra,
	}, nil
}

// parseMinVersion resolves the version/min_version alias pair: exactly one
// must be present and it must be a valid semantic version.
func parseMinVersion(cfg *rawConfig) (*semver.Version, error) {
	field, value := "version", cfg.Version
	switch {
	case cfg.Version != "" && cfg.MinVersion != "":
		return nil, &SchemaError{Field: "min_version", Reason: `"version" and "min_version" are aliases, declare only one`}
	case cfg.Version == "" && cfg.MinVersion == "":
		return nil, &SchemaError{Field: "version", Reason: "required field is missing"}
	case cfg.MinVersion != "":
		field, value = "min_version", cfg.MinVersion
	}

	v, err := semver.NewVersion(value)
	if err != nil {
		return nil, &SchemaError{
			Field:  field,
			Reason: fmt.Sprintf("%q is not a valid semantic version", value),
		}
	}
	return v, nil
}

// Validate applies the semantic rules to a structurally valid front matter:
// version compatibility, token/command coherence, and the complete_user
// identity source requirement. It is idempotent and has no side effects;
// everything downstream assumes a validated front matter.
func (fm *FrontMatter) Validate(program *semver.Version) error {
	if program.LessThan(fm.MinVersion) {
		return &VersionError{Program: program, Required: fm.MinVersion}
	}

	for _, token := range fm.Tokens {
		if !fm.Command.Supports(token) {
			return &UnsupportedTokenError{Command: fm.Command, Token: token}
		}
	}

	if fm.CompleteUser && !fm.hasIdentitySource() {
		return ErrMissingIdentitySource
	}

	return nil
}

func (fm *FrontMatter) hasIdentitySource() bool {
	return slices.Contains(fm.Tokens, tokens.UserID) ||
		slices.Contains(fm.Tokens, tokens.UserName)
}
