package adapter

import (
	"encoding/json"
	"io"
	"net/http"

	"sku-tracker/internal/features/connectors/domain"
)

// maxResponseBytes bounds how much of a provider response is read into memory.
const maxResponseBytes = 8 << 20

// execute runs req and returns the body of a 2xx response.
// Every failure comes back as a *domain.UpstreamError, including timeouts.
func execute(client *http.Client, provider, operation string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(provider, operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewTransportError(provider, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewStatusError(provider, operation, resp.StatusCode, body)
	}

	return body, nil
}

// flexString is a record field that carriers send either as a string or as a bare number.
// Numbers keep their literal text; any other JSON value decodes as "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

// decodeRecord decodes one provider record into its typed view and keeps the raw
// field map for the event payload.
func decodeRecord(raw json.RawMessage, typed any) (map[string]any, error) {
	if err := json.Unmarshal(raw, typed); err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
