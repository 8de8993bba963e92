package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// errorBody is the coordinator's error envelope.
type errorBody struct {
	ErrorMessage string `json:"errorMessage"`
	MoreInfo     string `json:"moreInfo"`
}

// DecodeResponse closes the body, maps non-2xx statuses to *errors.APIError
// and decodes a JSON payload into target when target is non-nil.
func DecodeResponse(ctx context.Context, resp *http.Response, method, endpoint string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapTransport(method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(method, endpoint, resp.StatusCode, errorMessage(body))
	}

	if target == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", method+" "+endpoint, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.ErrorMessage != "" {
		if eb.MoreInfo != "" {
			return eb.ErrorMessage + ": " + eb.MoreInfo
		}
		return eb.ErrorMessage
	}
	return strings.TrimSpace(string(body))
}
