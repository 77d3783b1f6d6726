package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

// errResponseTooLarge marks an upstream body longer than MaxResponseSize.
var errResponseTooLarge = errors.New("upstream response exceeds size limit")

// upstreamResult is what came back from the upstream, before it is mapped to an Outcome.
type upstreamResult struct {
	status     int
	statusText string
	raw        []byte
	body       any
	decodeErr  error
}

func (r *upstreamResult) success() bool {
	return r.status >= 200 && r.status < 300
}

// forward POSTs msgs to the upstream and decodes the reply. The returned error is a
// transport failure, including deadline expiry; a non-2xx status is not an error.
func (g *Gateway) forward(ctx context.Context, msgs []llm.Message) (*upstreamResult, error) {
	reqBody, err := json.Marshal(llm.ChatRequest{Messages: msgs})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.UpstreamURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize+1))
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("read response: %w", ctx.Err())
	}

	result := &upstreamResult{
		status:     httpResp.StatusCode,
		statusText: statusText(httpResp),
		raw:        raw,
	}
	if err != nil {
		result.decodeErr = fmt.Errorf("read response: %w", err)
		return result, nil
	}
	if len(raw) > MaxResponseSize {
		result.raw = raw[:MaxResponseSize]
		result.decodeErr = fmt.Errorf("read response: %w", errResponseTooLarge)
		return result, nil
	}
	if err := json.Unmarshal(raw, &result.body); err != nil {
		result.decodeErr = fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

// statusText returns the reason phrase the upstream sent, falling back to the standard one.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
