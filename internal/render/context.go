// Package render turns a validated front matter plus sshd's positional
// arguments into a template context and evaluates the template body against
// it.
package render

import (
	"github.com/flosch/pongo2/v6"

	"github.com/vdbe/sshd-command/internal/frontmatter"
	"github.com/vdbe/sshd-command/internal/identity"
)

// BuildContext assembles the render context for one invocation.
//
// Merge precedence on key collision, lowest to highest: extra front-matter
// fields, hostname, user, token target fields. Token fields win because they
// are the most specific per-connection data; a template that shadows them
// from its front matter is misconfigured, not honored.
func BuildContext(fm *frontmatter.FrontMatter, args []string, src identity.Source) (pongo2.Context, error) {
	bound, err := bind(fm.Tokens, args)
	if err != nil {
		return nil, err
	}

	ctx := make(pongo2.Context, len(fm.Extra)+len(bound.fields)+2)
	for key, value := range fm.Extra {
		ctx[key] = value
	}

	if fm.Hostname {
		hostname, err := identity.Hostname(src)
		if err != nil {
			return nil, err
		}
		ctx["hostname"] = hostname
	}

	user, err := userContext(fm, bound, src)
	if err != nil {
		return nil, err
	}
	if len(user) > 0 {
		ctx["user"] = user
	}

	for key, value := range bound.fields {
		ctx[key] = value
	}

	return ctx, nil
}

// userContext builds the user mapping from bound tokens and, when
// complete_user is enabled, the identity database. Only known fields are
// present so templates can distinguish missing from empty.
func userContext(fm *frontmatter.FrontMatter, bound *boundTokens, src identity.Source) (map[string]any, error) {
	user := make(map[string]any, 4)
	if bound.uid != nil {
		user["uid"] = int(*bound.uid)
	}
	if bound.name != nil {
		user["name"] = *bound.name
	}

	if !fm.CompleteUser {
		return user, nil
	}

	completed, err := identity.Complete(src, bound.uid, bound.name)
	if err != nil {
		return nil, err
	}

	user["uid"] = int(completed.UID)
	user["gid"] = int(completed.GID)
	if bound.name == nil {
		user["name"] = completed.Name
	}

	groups := make([]map[string]any, 0, len(completed.Groups))
	for _, group := range completed.Groups {
		groups = append(groups, map[string]any{
			"gid":  int(group.GID),
			"name": group.Name,
		})
	}
	user["groups"] = groups

	return user, nil
}
