// Package catalog 访问 ophim 资源站接口
package catalog

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/logger"
)

// NetworkError 请求未能完成：连接失败、被取消或状态码非 2xx
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError 响应体不是预期的 JSON 结构
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrItemsNotArray data.items 存在但不是数组
var ErrItemsNotArray = errors.New("data.items is not an array")

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
}

// Client 资源站 HTTP 客户端，每次调用只发一次 GET，不重试
type Client struct {
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	log          *logrus.Entry
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client（测试用）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger 设置日志
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = logger.Component(log, "catalog") }
}

// NewClient 创建客户端，超时由调用方通过 context 控制，这里只保留兜底超时
func NewClient(baseURL, imageBaseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          logger.Component(logger.Discard(), "catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL API 根路径
func (c *Client) BaseURL() string { return c.baseURL }

// Get 请求接口并解析出响应信封
func (c *Client) Get(ctx context.Context, ep Endpoint) (*Envelope, error) {
	u := ep.URL(c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", u).Warn("request failed")
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WithFields(logrus.Fields{"url": u, "status": resp.StatusCode}).Warn("unexpected status")
		return nil, &NetworkError{URL: u, Status: resp.StatusCode}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}

	env, err := decodeEnvelope(body, c.imageBaseURL)
	if err != nil {
		c.log.WithError(err).WithField("url", u).Warn("decode failed")
		return nil, &DecodeError{URL: u, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"url":      u,
		"items":    len(env.items),
		"duration": time.Since(start).String(),
	}).Debug("fetched")
	return env, nil
}

// readBody 读取响应体，手动设置了 Accept-Encoding，需要自行解压
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gz
	case "deflate":
		reader = flate.NewReader(resp.Body)
	default:
		reader = io.NopCloser(resp.Body)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Envelope 资源站统一响应 {status, data: {items | item, params: {pagination}}}
type Envelope struct {
	items      []map[string]any
	item       map[string]any
	pagination map[string]any
	imageBase  string
}

type envelopeWire struct {
	Data *struct {
		Items  json.RawMessage `json:"items"`
		Item   json.RawMessage `json:"item"`
		Params json.RawMessage `json:"params"`
	} `json:"data"`
}

func decodeEnvelope(body []byte, imageBase string) (*Envelope, error) {
	var wire envelopeWire
	if err := unmarshalNumber(body, &wire); err != nil {
		return nil, err
	}

	env := &Envelope{imageBase: imageBase}
	if wire.Data == nil {
		return env, nil
	}

	if isPresent(wire.Data.Items) {
		var raw []any
		if err := unmarshalNumber(wire.Data.Items, &raw); err != nil {
			return nil, ErrItemsNotArray
		}
		env.items = make([]map[string]any, 0, len(raw))
		for _, v := range raw {
			if m, ok := v.(map[string]any); ok {
				env.items = append(env.items, m)
			}
		}
	}

	if isPresent(wire.Data.Item) {
		var m map[string]any
		if err := unmarshalNumber(wire.Data.Item, &m); err == nil {
			env.item = m
		}
	}

	// params 结构不固定，解析失败时视为无分页元数据
	if isPresent(wire.Data.Params) {
		var params struct {
			Pagination map[string]any `json:"pagination"`
		}
		if err := unmarshalNumber(wire.Data.Params, &params); err == nil {
			env.pagination = params.Pagination
		}
	}
	return env, nil
}

// unmarshalNumber 数字保留为 json.Number，避免大整数精度丢失
func unmarshalNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func isPresent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
