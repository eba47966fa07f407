package optimiser

import (
	"context"
	"image"
	"io"
)

type WebPEncoder interface {
	Encode(img image.Image, quality int, w io.Writer) error
	Decode(r io.Reader) (image.Image, string, error)
}

// CommandRunner runs an external binary and returns what it wrote on stderr.
// exitCode is -1 when the process could not be started or was killed.
type CommandRunner func(ctx context.Context, bin string, args ...string) (stderr []byte, exitCode int, err error)
