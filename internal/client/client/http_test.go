package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/devapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

var t0 = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestClient starts devapi on an in-memory listener and returns a client
// dialing it.
func newTestClient(t *testing.T) (*HTTPClient, *clock) {
	t.Helper()

	clk := &clock{now: t0}
	srv := devapi.New(devapi.Config{Secret: []byte("test"), Now: clk.Now})
	ln := fasthttputil.NewInmemoryListener()

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	c := NewHTTPClient("http://devapi/api", WithDial(func(string) (net.Conn, error) {
		return ln.Dial()
	}))
	t.Cleanup(func() { _ = c.Close() })
	return c, clk
}

// newStubClient serves every request with h.
func newStubClient(t *testing.T, h fasthttp.RequestHandler) *HTTPClient {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: h}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	return NewHTTPClient("http://stub/api", WithDial(func(string) (net.Conn, error) {
		return ln.Dial()
	}))
}

func TestHTTPClient_FullFlow(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestClient(t)

	require.NoError(t, c.Ping(ctx))

	auth, err := c.Register(ctx, "Maria", "12345678901", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", auth.Name)
	require.NotEmpty(t, auth.Token)

	auth, err = c.Login(ctx, "12345678901", "secret1")
	require.NoError(t, err)
	token := auth.Token

	topic, err := c.CreateTopic(ctx, token, "Orçamento")
	require.NoError(t, err)
	assert.Equal(t, int64(1), topic.ID)

	_, err = c.GetSession(ctx, topic.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.OpenSession(ctx, token, topic.ID, 1))

	s, err := c.GetSession(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, t0, s.OpenAt)
	assert.Equal(t, t0.Add(time.Minute), s.CloseAt)

	topics, err := c.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, models.StatusOpen, topics[0].Status)

	require.NoError(t, c.Vote(ctx, token, topic.ID, models.ChoiceYes))

	_, err = c.Result(ctx, topic.ID)
	assert.ErrorIs(t, err, ErrRejected)

	clk.Advance(61 * time.Second)

	tally, err := c.Result(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteTally{TopicID: topic.ID, Sim: 1}, *tally)
}

func TestHTTPClient_DuplicateVoteIsRejection(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	auth, err := c.Register(ctx, "Maria", "12345678901", "secret1")
	require.NoError(t, err)
	topic, err := c.CreateTopic(ctx, auth.Token, "a")
	require.NoError(t, err)
	require.NoError(t, c.OpenSession(ctx, auth.Token, topic.ID, 5))

	require.NoError(t, c.Vote(ctx, auth.Token, topic.ID, models.ChoiceNo))
	err = c.Vote(ctx, auth.Token, topic.ID, models.ChoiceNo)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrServer)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "Usuário já votou nesta pauta", apiErr.Message)
}

func TestHTTPClient_Unauthorized(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.CreateTopic(ctx, "", "a")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrRejected)

	_, err = c.Login(ctx, "12345678901", "nope123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_EnvelopeAndLegacyBodies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		code    int
		body    string
		wantErr error
		wantMsg string
	}{
		{"envelope error with 200", 200, `{"status":"error","error":"nope"}`, ErrRejected, "nope"},
		{"legacy Erro key", 400, `{"Erro":"Nome da pauta é obrigatório"}`, ErrRejected, "Nome da pauta é obrigatório"},
		{"empty 500", 500, ``, ErrServer, "HTTP 500: Internal Server Error"},
		{"plain text 502", 502, `bad gateway`, ErrServer, "bad gateway"},
		{"empty 403", 403, ``, ErrUnauthorized, "HTTP 403: Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newStubClient(t, func(ctx *fasthttp.RequestCtx) {
				ctx.SetStatusCode(tt.code)
				ctx.SetBodyString(tt.body)
			})

			_, err := c.ListTopics(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestHTTPClient_BarePayloads(t *testing.T) {
	ctx := context.Background()

	var gotRequestID, gotAuth string
	c := newStubClient(t, func(rc *fasthttp.RequestCtx) {
		gotRequestID = string(rc.Request.Header.Peek("X-Request-Id"))
		gotAuth = string(rc.Request.Header.Peek("Authorization"))
		switch string(rc.Path()) {
		case "/api/topics":
			if rc.IsPost() {
				rc.SetStatusCode(fasthttp.StatusCreated)
				return
			}
			rc.SetBodyString(`[{"id":3,"name":"x","status":"Votação Encerrada"}]`)
		case "/api/topics/3/result":
			rc.SetBodyString(`{"Sim":4,"Não":2}`)
		}
	})

	topics, err := c.ListTopics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Topic{{ID: 3, Name: "x", Status: models.StatusClosed}}, topics)
	assert.Len(t, gotRequestID, 36)
	assert.Empty(t, gotAuth)

	tally, err := c.Result(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, models.VoteTally{TopicID: 3, Sim: 4, Nao: 2}, *tally)

	topic, err := c.CreateTopic(ctx, "tok", "new")
	require.NoError(t, err)
	assert.Equal(t, models.Topic{Name: "new"}, *topic)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	c := NewHTTPClient("http://unused/api", WithDial(func(string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}))

	_, err := c.ListTopics(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newStubClient(t, func(rc *fasthttp.RequestCtx) {
		<-release
		rc.SetBodyString(`[]`)
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.ListTopics(ctx)
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("call did not return after cancel")
	}

	_, err := c.ListTopics(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_Deadline(t *testing.T) {
	release := make(chan struct{})
	c := newStubClient(t, func(rc *fasthttp.RequestCtx) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.ListTopics(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		code int
		is   []error
		not  []error
	}{
		{401, []error{ErrUnauthorized}, []error{ErrRejected, ErrServer, ErrNotFound}},
		{403, []error{ErrUnauthorized}, []error{ErrRejected}},
		{404, []error{ErrNotFound, ErrRejected}, []error{ErrUnauthorized, ErrServer}},
		{409, []error{ErrRejected}, []error{ErrNotFound, ErrServer}},
		{400, []error{ErrRejected}, []error{ErrUnauthorized}},
		{503, []error{ErrServer}, []error{ErrRejected, ErrUnavailable}},
	}

	for _, tt := range tests {
		err := error(&APIError{StatusCode: tt.code, Message: "x"})
		for _, target := range tt.is {
			assert.ErrorIs(t, err, target, "code %d", tt.code)
		}
		for _, target := range tt.not {
			assert.NotErrorIs(t, err, target, "code %d", tt.code)
		}
	}
}
