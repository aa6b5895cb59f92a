package facesvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	EndpointRegister  = "register_face"
	EndpointRecognize = "recognize_face"

	maxBodyBytes = 10 << 20
)

type Config struct {
	BaseURL          string
	RegisterTimeout  time.Duration
	RecognizeTimeout time.Duration
}

type Client struct {
	baseURL          string
	http             *http.Client
	registerTimeout  time.Duration
	recognizeTimeout time.Duration
}

func New(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		http:             hc,
		registerTimeout:  cfg.RegisterTimeout,
		recognizeTimeout: cfg.RecognizeTimeout,
	}
}

type EnrollRequest struct {
	Image string `json:"image"`
	Name  string `json:"name"`
	NIK   string `json:"nik"`
}

// Response is a successful (2xx) reply with the body kept verbatim.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

func (r Response) Payload() any { return decodeBody(r.Body) }

func (c *Client) RegisterFace(ctx context.Context, req EnrollRequest) (Response, error) {
	return c.post(ctx, EndpointRegister, c.registerTimeout, req)
}

func (c *Client) RecognizeFace(ctx context.Context, image string) (Recognition, error) {
	resp, err := c.post(ctx, EndpointRecognize, c.recognizeTimeout, map[string]string{"image": image})
	if err != nil {
		return Recognition{}, err
	}
	return parseRecognition(resp.Body), nil
}

func (c *Client) post(ctx context.Context, endpoint string, timeout time.Duration, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode %s payload: %w", endpoint, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		callDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		callsTotal.WithLabelValues(endpoint, outcomeTransport).Inc()
		return Response{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	callDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		callsTotal.WithLabelValues(endpoint, outcomeTransport).Inc()
		return Response{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		callsTotal.WithLabelValues(endpoint, outcomeStatus).Inc()
		return Response{}, &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode, Body: raw}
	}
	callsTotal.WithLabelValues(endpoint, outcomeOK).Inc()
	return Response{StatusCode: res.StatusCode, Body: raw}, nil
}
