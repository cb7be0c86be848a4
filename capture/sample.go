package capture

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/layer-3/facegate/core"
)

// defaultMIME is assumed when the capture source provides no encoding header.
const defaultMIME = "image/png"

// ParseImage decodes a captured image into a Sample. Capture sources hand
// the frame over as a data URI ("data:image/png;base64,...."); the MIME
// type is taken from the URI header. Bare base64 payloads are accepted
// and assumed to be PNG.
func ParseImage(image string) (core.Sample, error) {
	if image == "" {
		return core.Sample{}, core.ErrInvalidSample
	}

	mime := defaultMIME
	payload := image

	if strings.HasPrefix(image, "data:") {
		header, rest, found := strings.Cut(image[len("data:"):], ",")
		if !found {
			return core.Sample{}, fmt.Errorf("%w: data URI without payload", core.ErrInvalidSample)
		}
		if m, ok := strings.CutSuffix(header, ";base64"); ok && m != "" {
			mime = m
		} else if !ok {
			return core.Sample{}, fmt.Errorf("%w: unsupported data URI encoding %q", core.ErrInvalidSample, header)
		}
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return core.Sample{}, fmt.Errorf("%w: %w", core.ErrInvalidSample, err)
	}
	if len(data) == 0 {
		return core.Sample{}, core.ErrInvalidSample
	}

	return core.Sample{Data: data, MIME: mime}, nil
}
