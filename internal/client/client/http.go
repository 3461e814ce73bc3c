package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gstrconv "github.com/savsgio/gotils/strconv"
	"github.com/valyala/fasthttp"
)

const DefaultBaseURL = "http://127.0.0.1:8080/api"

// HTTPClient implements Client over the REST/JSON contract.
type HTTPClient struct {
	baseURL string
	hc      *fasthttp.Client
}

type HTTPOption func(*fasthttp.Client)

// WithDial replaces the network dialer, e.g. with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) HTTPOption {
	return func(c *fasthttp.Client) { c.Dial = dial }
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := &fasthttp.Client{
		Name:                "gvote",
		MaxIdleConnDuration: 30 * time.Second,
	}
	for _, o := range opts {
		o(hc)
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// Ping reports whether the service answers at all. Any status below 500 means
// it is up.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.do(ctx, fasthttp.MethodGet, "/topics", "", nil, nil)
	if err == nil || !isServerSide(err) {
		return nil
	}
	return err
}

func isServerSide(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= fasthttp.StatusInternalServerError
	}
	return true
}

type registerRequest struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

type loginRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, name, cpf, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, fasthttp.MethodPost, "/auth/register", "", registerRequest{Name: name, CPF: cpf, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, cpf, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, fasthttp.MethodPost, "/auth/login", "", loginRequest{CPF: cpf, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	if err := c.do(ctx, fasthttp.MethodGet, "/topics", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createTopicRequest struct {
	Name string `json:"name"`
}

// CreateTopic returns the created topic. Servers that answer 201 without a
// body yield a topic with a zero ID.
func (c *HTTPClient) CreateTopic(ctx context.Context, token, name string) (*models.Topic, error) {
	out := models.Topic{Name: name}
	if err := c.do(ctx, fasthttp.MethodPost, "/topics", token, createTopicRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type openSessionRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

func (c *HTTPClient) OpenSession(ctx context.Context, token string, topicID int64, minutes int) error {
	path := fmt.Sprintf("/topics/%d/session", topicID)
	return c.do(ctx, fasthttp.MethodPost, path, token, openSessionRequest{DurationMinutes: minutes}, nil)
}

type sessionResponse struct {
	OpenAt  int64 `json:"open_at"`
	CloseAt int64 `json:"close_at"`
}

// GetSession returns the server's voting window for a topic. A topic without
// a session yields an error matching ErrNotFound.
func (c *HTTPClient) GetSession(ctx context.Context, topicID int64) (*models.VotingSession, error) {
	var out sessionResponse
	if err := c.do(ctx, fasthttp.MethodGet, fmt.Sprintf("/topics/%d/session", topicID), "", nil, &out); err != nil {
		return nil, err
	}
	if out.CloseAt == 0 {
		return nil, &APIError{StatusCode: fasthttp.StatusNotFound, Message: "session not found"}
	}
	return &models.VotingSession{
		TopicID: topicID,
		OpenAt:  time.Unix(out.OpenAt, 0).UTC(),
		CloseAt: time.Unix(out.CloseAt, 0).UTC(),
	}, nil
}

type voteRequest struct {
	Choice models.Choice `json:"choice"`
}

func (c *HTTPClient) Vote(ctx context.Context, token string, topicID int64, choice models.Choice) error {
	path := fmt.Sprintf("/topics/%d/vote", topicID)
	return c.do(ctx, fasthttp.MethodPost, path, token, voteRequest{Choice: choice}, nil)
}

func (c *HTTPClient) Result(ctx context.Context, topicID int64) (*models.VoteTally, error) {
	out := models.VoteTally{TopicID: topicID}
	if err := c.do(ctx, fasthttp.MethodGet, fmt.Sprintf("/topics/%d/result", topicID), "", nil, &out); err != nil {
		return nil, err
	}
	out.TopicID = topicID
	return &out, nil
}

// do performs one request and decodes the envelope's data into out.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			release()
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	done := make(chan error, 1)
	go func() {
		if deadline, ok := ctx.Deadline(); ok {
			done <- c.hc.DoDeadline(req, resp, deadline)
			return
		}
		done <- c.hc.Do(req, resp)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		// the request still owns req and resp until fasthttp returns
		go func() {
			<-done
			release()
		}()
		return ctx.Err()
	}
	defer release()

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, ok := ctx.Deadline(); ok && errors.Is(err, fasthttp.ErrTimeout) {
			return context.DeadlineExceeded
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}

	return decode(resp.StatusCode(), resp.Body(), out)
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Erro   string          `json:"Erro"`
	Data   json.RawMessage `json:"data"`
}

// decode unwraps {status, error, data}. Bodies that are not an envelope (a
// bare array or object) are taken as the data itself.
func decode(code int, body []byte, out any) error {
	body = bytes.TrimSpace(body)

	var env envelope
	data := body
	isJSON := len(body) > 0 && (body[0] == '{' || body[0] == '[')
	if len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, &env); err != nil {
			isJSON = false
		} else if env.Status != "" || env.Error != "" || env.Erro != "" || env.Data != nil {
			data = env.Data
		}
	}

	failed := code < fasthttp.StatusOK || code >= fasthttp.StatusMultipleChoices || env.Status == "error"
	if failed {
		return &APIError{StatusCode: code, Message: message(code, body, env, isJSON)}
	}

	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}

func message(code int, body []byte, env envelope, isJSON bool) string {
	switch {
	case env.Error != "":
		return env.Error
	case env.Erro != "":
		return env.Erro
	case !isJSON && len(body) > 0 && len(body) <= 200:
		return strings.Clone(gstrconv.B2S(body))
	}
	return fmt.Sprintf("HTTP %d: %s", code, fasthttp.StatusMessage(code))
}
