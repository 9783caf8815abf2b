package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/voicedon/internal/pkg/backend/api"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	headerRequestID = "x-request-id"
	maxBodySize     = 1 << 20
)

// Client communicates with the voice donation backend
type Client struct {
	httpclient    *http.Client
	submitURL     string
	statusURL     string
	uploadTimeout time.Duration
	timeout       time.Duration
	backoff       func() backoff.BackOff
}

// NewClient creates a backend client, baseURL is e.g. http://localhost:5000/api.
// retries > 0 enables retries of transport failures and retryable codes
func NewClient(baseURL string, timeout time.Duration, retries int) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("no baseURL")
	}
	if !strings.HasPrefix(baseURL, "http") {
		return nil, fmt.Errorf("no http in baseURL")
	}
	res := Client{}
	var err error
	if res.submitURL, err = url.JoinPath(baseURL, "voice-donation"); err != nil {
		return nil, fmt.Errorf("can't prepare submit URL: %w", err)
	}
	if res.statusURL, err = url.JoinPath(baseURL, "donation-status"); err != nil {
		return nil, fmt.Errorf("can't prepare status URL: %w", err)
	}
	res.timeout = timeout
	if res.timeout <= 0 {
		res.timeout = 30 * time.Second
	}
	res.uploadTimeout = time.Minute * 5
	res.httpclient = &http.Client{Transport: newTransport()}
	res.backoff = newBackoff(retries)
	goapp.Log.Info().Str("submit", res.submitURL).Str("status", res.statusURL).Int("retries", retries).Msg("backend client")
	return &res, nil
}

// Submit posts one recording with its questionnaire
func (sp *Client) Submit(ctx context.Context, data *api.UploadData) (*api.SubmitResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, api.PrmAudio, quoteEscaper.Replace(data.FileName)))
	h.Set("Content-Type", partContentType(data.MimeType))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("can't add file to request: %w", err)
	}
	if _, err = io.Copy(part, data.Audio); err != nil {
		return nil, fmt.Errorf("can't add file content to request: %w", err)
	}
	if err := writer.WriteField(api.PrmQuestionnaire, data.Questionnaire); err != nil {
		return nil, fmt.Errorf("can't add questionnaire: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("can't finish multipart: %w", err)
	}
	content := body.Bytes()

	return goapp.InvokeWithBackoff(ctx, func() (*api.SubmitResponse, bool, error) {
		req, err := http.NewRequest(http.MethodPost, sp.submitURL, bytes.NewReader(content))
		if err != nil {
			return nil, false, err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		ctx, cancelF := context.WithTimeout(ctx, sp.uploadTimeout)
		defer cancelF()
		return invoke[api.SubmitResponse](sp.httpclient, req.WithContext(ctx))
	}, sp.backoff())
}

// GetStatus returns processing status of a donation or recording
func (sp *Client) GetStatus(ctx context.Context, ID string) (*api.StatusData, error) {
	return goapp.InvokeWithBackoff(ctx, func() (*api.StatusData, bool, error) {
		ctx, cancelF := context.WithTimeout(ctx, sp.timeout)
		defer cancelF()
		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s", sp.statusURL, url.PathEscape(ID)), nil)
		if err != nil {
			return nil, false, err
		}
		return invoke[api.StatusData](sp.httpclient, req.WithContext(ctx))
	}, sp.backoff())
}

func invoke[T any](cl *http.Client, req *http.Request) (*T, bool, error) {
	rID := uuid.NewString()
	req.Header.Set(headerRequestID, rID)
	goapp.Log.Info().Str("url", req.URL.String()).Str("method", req.Method).Str("requestID", rID).Msg("call")
	resp, err := cl.Do(req)
	if err != nil {
		return nil, goapp.IsRetryableErr(err), &TransportError{URL: req.URL.String(), Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 10000))
		_ = resp.Body.Close()
	}()
	br, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, goapp.IsRetryableErr(err), &TransportError{URL: req.URL.String(), Err: fmt.Errorf("can't read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		goapp.Log.Warn().Int("code", resp.StatusCode).Str("requestID", rID).Str("body", goapp.Sanitize(string(br))).Msg("call failed")
		return nil, goapp.IsRetryableCode(resp.StatusCode), &ProtocolError{Code: resp.StatusCode, Body: string(br)}
	}
	res := new(T)
	if err := json.Unmarshal(br, res); err != nil {
		return nil, false, &MalformedResponseError{Body: string(br), Err: err}
	}
	return res, false, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func partContentType(mimeType string) string {
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}

func newTransport() http.RoundTripper {
	// default roundripper keeps just 2 idle connections per host
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 10
	res.MaxIdleConns = 10
	res.MaxIdleConnsPerHost = 10
	res.IdleConnTimeout = 90 * time.Second
	return res
}

func newBackoff(retries int) func() backoff.BackOff {
	return func() backoff.BackOff {
		if retries <= 0 {
			return &backoff.StopBackOff{}
		}
		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	}
}
