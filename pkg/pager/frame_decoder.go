package pager

import (
	"bufio"
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"
)

const maxFrameSize = 16 << 20

// frameDecoder reads one JSON document per line, which is how the API
// server frames watch events.
type frameDecoder struct {
	scanner *bufio.Scanner
	api     jsoniter.API
}

func newFrameDecoder(r io.Reader) *frameDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxFrameSize)

	return &frameDecoder{
		scanner: scanner,
		api:     jsoniter.ConfigCompatibleWithStandardLibrary,
	}
}

func (d *frameDecoder) Decode(v any) error {
	for d.scanner.Scan() {
		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return d.api.Unmarshal(line, v)
	}
	if err := d.scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}
