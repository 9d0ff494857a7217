package render

import (
	"bytes"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// The rendered output is plain text consumed by sshd, not HTML, so HTML
// autoescaping must stay off.
var disableAutoescape = sync.OnceFunc(func() {
	pongo2.SetAutoescape(false)
})

// Render evaluates the template body against ctx and writes the result to w.
// Output is buffered first: on any evaluation error nothing reaches w, so a
// failed render never leaves partial principals or keys on stdout.
func Render(w io.Writer, name, body string, ctx pongo2.Context) error {
	disableAutoescape()

	tpl, err := pongo2.FromString(body)
	if err != nil {
		return &RenderError{Template: name, Err: err}
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteWriter(ctx, &buf); err != nil {
		return &RenderError{Template: name, Err: err}
	}

	_, err = buf.WriteTo(w)
	return err
}
