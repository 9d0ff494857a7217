package frontmatter

import (
	"fmt"
	"strings"
)

// Delimiter is the marker line that opens and closes the front-matter block.
const Delimiter = "---"

// Split partitions raw template file content into the front-matter segment
// and the template body. The first line must be the delimiter, a later
// delimiter line closes the block, and both segments must be non-empty.
//
// Split is pure: for any well-formed input,
// Delimiter+"\n"+front+Delimiter+"\n"+body reproduces it byte for byte.
func Split(content string) (front, body string, err error) {
	rest, ok := strings.CutPrefix(content, Delimiter+"\n")
	if !ok {
		return "", "", fmt.Errorf("%w: first line must be %q", ErrMalformed, Delimiter)
	}

	if rest == "" || rest == Delimiter || strings.HasPrefix(rest, Delimiter+"\n") {
		return "", "", fmt.Errorf("%w: front matter block is empty", ErrMalformed)
	}

	end := strings.Index(rest, "\n"+Delimiter+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+Delimiter) || strings.HasSuffix(rest, "\n"+Delimiter+"\n") {
			return "", "", fmt.Errorf("%w: template body is empty", ErrMalformed)
		}
		return "", "", fmt.Errorf("%w: missing closing %q line", ErrMalformed, Delimiter)
	}

	front = rest[:end+1]
	body = rest[end+1+len(Delimiter)+1:]
	if body == "" {
		return "", "", fmt.Errorf("%w: template body is empty", ErrMalformed)
	}

	return front, body, nil
}
