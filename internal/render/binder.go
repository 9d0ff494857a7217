package render

import (
	"net/netip"
	"strconv"

	"github.com/vdbe/sshd-command/internal/tokens"
)

// boundTokens is the result of zipping the declared token list against the
// positional arguments sshd supplied.
type boundTokens struct {
	// uid and name feed the user context entry and, when complete_user is
	// enabled, seed the identity lookup.
	uid  *uint32
	name *string

	// fields are the remaining token target fields, merged into the render
	// context at top level.
	fields map[string]any
}

// bind zips tokens against args by position. The count check runs before any
// binding: a mismatch never produces a partially bound result.
func bind(list []tokens.Token, args []string) (*boundTokens, error) {
	if expected := tokens.ArgCount(list); expected != len(args) {
		return nil, &TokenCountMismatchError{Expected: expected, Got: len(args)}
	}

	bound := &boundTokens{fields: make(map[string]any)}

	next := func() string {
		arg := args[0]
		args = args[1:]
		return arg
	}

	for _, token := range list {
		switch token {
		case tokens.ConnectionEndpoints:
			client, err := parseEndpoint(token, next(), next())
			if err != nil {
				return nil, err
			}
			server, err := parseEndpoint(token, next(), next())
			if err != nil {
				return nil, err
			}
			bound.fields["client"] = client
			bound.fields["server"] = server
		case tokens.RoutingDomain:
			bound.fields["routing_domain"] = next()
		case tokens.FingerprintCAKey:
			bound.fields["ca_fingerprint"] = next()
		case tokens.FingerprintKey:
			bound.fields["fingerprint"] = next()
		case tokens.UserHomeDir:
			bound.fields["home_dir"] = next()
		case tokens.CertificateKeyID:
			id, err := parseUint32(token, next())
			if err != nil {
				return nil, err
			}
			bound.fields["key_id"] = int(id)
		case tokens.CAKeyBase64:
			bound.fields["ca_key"] = next()
		case tokens.KeyBase64:
			bound.fields["key"] = next()
		case tokens.CertificateSerial:
			serial := next()
			parsed, err := strconv.ParseUint(serial, 10, 64)
			if err != nil {
				return nil, &InvalidArgumentError{Token: token, Value: serial}
			}
			bound.fields["serial"] = int(parsed)
		case tokens.CAKeyType:
			bound.fields["ca_key_type"] = next()
		case tokens.KeyType:
			bound.fields["key_type"] = next()
		case tokens.UserID:
			uid, err := parseUint32(token, next())
			if err != nil {
				return nil, err
			}
			bound.uid = &uid
		case tokens.UserName:
			name := next()
			bound.name = &name
		}
	}

	return bound, nil
}

// parseEndpoint validates an address/port argument pair and formats it as
// "ip:port" for the context.
func parseEndpoint(token tokens.Token, addrArg, portArg string) (string, error) {
	addr, err := netip.ParseAddr(addrArg)
	if err != nil {
		return "", &InvalidArgumentError{Token: token, Value: addrArg}
	}

	port, err := strconv.ParseUint(portArg, 10, 16)
	if err != nil {
		return "", &InvalidArgumentError{Token: token, Value: portArg}
	}

	return netip.AddrPortFrom(addr, uint16(port)).String(), nil
}

func parseUint32(token tokens.Token, arg string) (uint32, error) {
	parsed, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, &InvalidArgumentError{Token: token, Value: arg}
	}
	return uint32(parsed), nil
}
