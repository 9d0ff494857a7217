package frontmatter

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdbe/sshd-command/internal/tokens"
)

func minimalFrontMatter(minVersion *semver.Version) *FrontMatter {
	return &FrontMatter{
		MinVersion: minVersion,
		Command:    CommandPrincipals,
		Tokens:     []tokens.Token{tokens.UserID, tokens.UserName},
	}
}

func TestParseMinimal(t *testing.T) {
	fm, err := Parse("sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: '%U %u'\n")
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", fm.MinVersion.String())
	assert.Equal(t, CommandPrincipals, fm.Command)
	assert.Equal(t, []tokens.Token{tokens.UserID, tokens.UserName}, fm.Tokens)
	assert.False(t, fm.Hostname)
	assert.False(t, fm.CompleteUser)
	assert.Empty(t, fm.Extra)
}

func TestParseFull(t *testing.T) {
	raw := `sshd_command:
    version: 0.1.0
    command: principals
    tokens: '%U %u'
    complete_user: true
    hostname: true
search_domains:
    - home.arpa
    - local
`
	fm, err := Parse(raw)
	require.NoError(t, err)

	assert.True(t, fm.Hostname)
	assert.True(t, fm.CompleteUser)
	assert.Equal(t, map[string]any{
		"search_domains": []any{"home.arpa", "local"},
	}, fm.Extra)
}

func TestParseJSONFrontMatter(t *testing.T) {
	// YAML is a JSON superset, so JSON-flavoured front matter must parse to
	// the same model.
	yamlRaw := `sshd_command:
    version: 0.1.0
    command: principals
    tokens: '%U %u'
search_domains: [home.arpa, local]
`
	jsonRaw := `{
  "sshd_command": {
    "version": "0.1.0",
    "command": "principals",
    "tokens": "%U %u"
  },
  "search_domains": ["home.arpa", "local"]
}
`
	fromYAML, err := Parse(yamlRaw)
	require.NoError(t, err)
	fromJSON, err := Parse(jsonRaw)
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
}

func TestParseTokensAsSequence(t *testing.T) {
	fm, err := Parse("sshd_command:\n    version: 0.1.0\n    command: keys\n    tokens: ['%U', '%u']\n")
	require.NoError(t, err)

	assert.Equal(t, CommandKeys, fm.Command)
	assert.Equal(t, []tokens.Token{tokens.UserID, tokens.UserName}, fm.Tokens)
}

func TestParseOutOfOrderKeys(t *testing.T) {
	_, err := Parse("sshd_command:\n    tokens: '%U %u'\n    version: 0.1.0\n    command: principals\n")
	require.NoError(t, err)
}

func TestParseMinVersionAlias(t *testing.T) {
	fm, err := Parse("sshd_command:\n    min_version: 0.2.0\n    command: principals\n    tokens: '%u'\n")
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", fm.MinVersion.String())

	_, err = Parse("sshd_command:\n    version: 0.1.0\n    min_version: 0.2.0\n    command: principals\n    tokens: '%u'\n")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "min_version", schemaErr.Field)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "missing namespace",
			raw:   "search_domains: [home.arpa]\n",
			field: "sshd_command",
		},
		{
			name:  "missing version",
			raw:   "sshd_command:\n    command: principals\n    tokens: '%u'\n",
			field: "version",
		},
		{
			name:  "invalid version",
			raw:   "sshd_command:\n    version: not-a-version\n    command: principals\n    tokens: '%u'\n",
			field: "version",
		},
		{
			name:  "missing command",
			raw:   "sshd_command:\n    version: 0.1.0\n    tokens: '%u'\n",
			field: "command",
		},
		{
			name:  "invalid command",
			raw:   "sshd_command:\n    version: 0.1.0\n    command: banner\n    tokens: '%u'\n",
			field: "command",
		},
		{
			name:  "missing tokens",
			raw:   "sshd_command:\n    version: 0.1.0\n    command: principals\n",
			field: "tokens",
		},
		{
			name:  "empty tokens",
			raw:   "sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: ''\n",
			field: "tokens",
		},
		{
			name:  "tokens wrong shape",
			raw:   "sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: {a: b}\n",
			field: "tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

func TestParseUnknownToken(t *testing.T) {
	_, err := Parse("sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: '%U %u %invalid'\n")
	var unknownErr *tokens.UnknownTokenError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "%invalid", unknownErr.Symbol)
}

func TestParseUnknownConfigField(t *testing.T) {
	// Unknown keys inside the reserved namespace are schema errors; unknown
	// top-level keys are extra context and must pass through.
	_, err := Parse("sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: '%u'\n    typo_field: true\n")
	require.Error(t, err)

	fm, err := Parse("sshd_command:\n    version: 0.1.0\n    command: principals\n    tokens: '%u'\nanything: goes\n")
	require.NoError(t, err)
	assert.Equal(t, "goes", fm.Extra["anything"])
}

func TestValidateVersionRule(t *testing.T) {
	tests := []struct {
		name    string
		program string
		minimum string
		ok      bool
	}{
		{name: "equal", program: "0.3.0", minimum: "0.3.0", ok: true},
		{name: "program newer", program: "0.3.0", minimum: "0.2.0", ok: true},
		{name: "program older", program: "0.3.0", minimum: "0.4.0", ok: false},
		{name: "major newer", program: "1.0.0", minimum: "0.9.9", ok: true},
		{name: "patch older", program: "0.3.0", minimum: "0.3.1", ok: false},
		{name: "pre-release below release", program: "0.3.0-rc.1", minimum: "0.3.0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := minimalFrontMatter(semver.MustParse(tt.minimum))
			err := fm.Validate(semver.MustParse(tt.program))

			if tt.ok {
				assert.NoError(t, err)
				return
			}

			var versionErr *VersionError
			require.ErrorAs(t, err, &versionErr)
			assert.Contains(t, err.Error(), tt.minimum)
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	program := semver.MustParse("0.1.0")

	fm := minimalFrontMatter(semver.MustParse("0.1.0"))
	require.NoError(t, fm.Validate(program))
	require.NoError(t, fm.Validate(program))

	fm = minimalFrontMatter(semver.MustParse("0.2.0"))
	require.Error(t, fm.Validate(program))
	require.Error(t, fm.Validate(program))
}

func TestValidateCompleteUserRequiresIdentityToken(t *testing.T) {
	program := semver.MustParse("0.1.0")

	fm := minimalFrontMatter(semver.MustParse("0.1.0"))
	fm.CompleteUser = true
	assert.NoError(t, fm.Validate(program))

	fm.Tokens = []tokens.Token{tokens.UserID}
	assert.NoError(t, fm.Validate(program))

	fm.Tokens = []tokens.Token{tokens.UserName}
	assert.NoError(t, fm.Validate(program))

	fm.Tokens = []tokens.Token{tokens.UserHomeDir}
	assert.ErrorIs(t, fm.Validate(program), ErrMissingIdentitySource)
}

func TestValidateSupportedTokens(t *testing.T) {
	program := semver.MustParse("0.1.0")

	// AuthorizedPrincipalsCommand accepts the full vocabulary.
	fm := minimalFrontMatter(semver.MustParse("0.1.0"))
	fm.Tokens = tokens.All
	assert.NoError(t, fm.Validate(program))

	// AuthorizedKeysCommand lacks the certificate-only tokens.
	fm.Command = CommandKeys
	fm.Tokens = []tokens.Token{tokens.ConnectionEndpoints, tokens.UserName}
	assert.NoError(t, fm.Validate(program))

	fm.Tokens = []tokens.Token{tokens.ConnectionEndpoints, tokens.CAKeyType, tokens.UserName}
	var unsupportedErr *UnsupportedTokenError
	require.ErrorAs(t, fm.Validate(program), &unsupportedErr)
	assert.Equal(t, CommandKeys, unsupportedErr.Command)
	assert.Equal(t, tokens.CAKeyType, unsupportedErr.Token)
	assert.Contains(t, unsupportedErr.Error(), "AuthorizedKeysCommand")
}
