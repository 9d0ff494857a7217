// Package tokens defines the closed set of sshd_config(5) tokens a template
// may declare. Each token names a value sshd expands and passes to the
// command as a positional argument.
package tokens

import "fmt"

// Token is one sshd_config token symbol, e.g. %U or %u.
type Token uint8

const (
	// ConnectionEndpoints is %C: the connection endpoints, passed as four
	// arguments (client address, client port, server address, server port).
	ConnectionEndpoints Token = iota

	// RoutingDomain is %D: the routing domain of the incoming connection.
	RoutingDomain

	// FingerprintCAKey is %F: the fingerprint of the CA key.
	FingerprintCAKey

	// FingerprintKey is %f: the fingerprint of the key or certificate.
	FingerprintKey

	// UserHomeDir is %h: the home directory of the target user.
	UserHomeDir

	// CertificateKeyID is %i: the key ID in the certificate.
	CertificateKeyID

	// CAKeyBase64 is %K: the base64-encoded CA key.
	CAKeyBase64

	// KeyBase64 is %k: the base64-encoded key or certificate for
	// authentication.
	KeyBase64

	// CertificateSerial is %s: the serial number of the certificate.
	CertificateSerial

	// CAKeyType is %T: the type of the CA key.
	CAKeyType

	// KeyType is %t: the key or certificate type.
	KeyType

	// UserID is %U: the numeric user ID of the target user.
	UserID

	// UserName is %u: the username.
	UserName
)

// All lists every recognized token.
var All = []Token{
	ConnectionEndpoints,
	RoutingDomain,
	FingerprintCAKey,
	FingerprintKey,
	UserHomeDir,
	CertificateKeyID,
	CAKeyBase64,
	KeyBase64,
	CertificateSerial,
	CAKeyType,
	KeyType,
	UserID,
	UserName,
}

var symbols = map[Token]string{
	ConnectionEndpoints: "%C",
	RoutingDomain:       "%D",
	FingerprintCAKey:    "%F",
	FingerprintKey:      "%f",
	UserHomeDir:         "%h",
	CertificateKeyID:    "%i",
	CAKeyBase64:         "%K",
	KeyBase64:           "%k",
	CertificateSerial:   "%s",
	CAKeyType:           "%T",
	KeyType:             "%t",
	UserID:              "%U",
	UserName:            "%u",
}

// UnknownTokenError reports a token symbol outside the recognized vocabulary.
type UnknownTokenError struct {
	Symbol string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q, see sshd_config(5) for valid tokens", e.Symbol)
}

// Parse maps a token symbol such as "%U" to its Token.
func Parse(symbol string) (Token, error) {
	for token, s := range symbols {
		if s == symbol {
			return token, nil
		}
	}
	return 0, &UnknownTokenError{Symbol: symbol}
}

// String returns the sshd_config symbol for the token.
func (t Token) String() string {
	if s, ok := symbols[t]; ok {
		return s
	}
	return fmt.Sprintf("Token(%d)", uint8(t))
}

// Arity returns how many positional arguments sshd passes for the token.
// %C expands to four space-separated values; every other token to one.
func (t Token) Arity() int {
	if t == ConnectionEndpoints {
		return 4
	}
	return 1
}

// Placeholders returns stand-in argument values for check mode, where the
// template is rendered without a real sshd invocation behind it.
func (t Token) Placeholders() []string {
	switch t {
	case ConnectionEndpoints:
		return []string{"192.0.2.1", "50000", "192.0.2.2", "22"}
	case RoutingDomain:
		return []string{"0"}
	case FingerprintCAKey, FingerprintKey:
		return []string{"SHA256:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"}
	case UserHomeDir:
		return []string{"/home/user"}
	case CertificateKeyID:
		return []string{"0"}
	case CAKeyBase64, KeyBase64:
		return []string{"AAAA"}
	case CertificateSerial:
		return []string{"0"}
	case CAKeyType, KeyType:
		return []string{"ssh-ed25519"}
	case UserID:
		return []string{"1000"}
	case UserName:
		return []string{"user"}
	default:
		return []string{""}
	}
}

// ArgCount returns the total number of positional arguments a token list
// expects, accounting for multi-argument tokens.
func ArgCount(list []Token) int {
	var n int
	for _, t := range list {
		n += t.Arity()
	}
	return n
}

// PlaceholderArgs returns placeholder argument values for an entire token
// list, in declaration order.
func PlaceholderArgs(list []Token) []string {
	args := make([]string, 0, ArgCount(list))
	for _, t := range list {
		args = append(args, t.Placeholders()...)
	}
	return args
}
