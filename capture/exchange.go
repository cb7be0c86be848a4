package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/layer-3/facegate/core"
)

// fallbackReason is shown when a rejection carries no usable detail.
const fallbackReason = "face verification failed"

// encodeChallenge packages the collected credentials and the biometric
// sample into one multipart body, matching the verification service's
// form contract: username, (email on signup), password, face.
func encodeChallenge(mode core.Mode, principal *core.Principal, sample core.Sample) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := w.WriteField("username", principal.Username); err != nil {
		return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
	}
	if mode == core.ModeRegistration {
		if err := w.WriteField("email", principal.Email); err != nil {
			return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
		}
	}
	if err := w.WriteField("password", principal.Password); err != nil {
		return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="face"; filename="face.png"`)
	hdr.Set("Content-Type", sample.MIME)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
	}
	if _, err := part.Write(sample.Data); err != nil {
		return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode challenge: %w", err)
	}

	return body, w.FormDataContentType(), nil
}

// tokenResponse is the success body of /signup and /signin. Some service
// revisions name the field access_token, others token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func (r tokenResponse) value() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// extractToken pulls the issued credential out of a success body.
// An unreadable body or a missing token field yields "".
func extractToken(body []byte) string {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.value()
}

// rejectionReason normalizes the structured error detail of a non-2xx
// response into one human-readable line. The detail is either a plain
// string or a list of field-level {msg} objects, joined with ", ".
func rejectionReason(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return fallbackReason
	}

	var single string
	if err := json.Unmarshal(envelope.Detail, &single); err == nil && single != "" {
		return single
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, entry := range list {
			if entry.Msg != "" {
				msgs = append(msgs, entry.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	return fallbackReason
}
