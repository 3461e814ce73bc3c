package services

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
	"github.com/dmitrijs2005/gophvote/internal/devapi"
	"github.com/dmitrijs2005/gophvote/internal/logging"
	"github.com/stretchr/testify/require"
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

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type env struct {
	clk      *clock
	store    *sessions.Store
	board    *projection.Board
	auth     AuthService
	topics   TopicService
	sessions SessionService
	votes    VoteService
}

// newEnv wires the services the way the app does, on a fresh local database
// and the given remote client.
func newEnv(t *testing.T, c client.Client, clk *clock) *env {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "gvote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := sessions.NewStore(db, quietLogger())
	board := projection.NewBoard(projection.WithClock(clk.Now))
	auth := NewAuthService(c, db, clk.Now)

	return &env{
		clk:      clk,
		store:    store,
		board:    board,
		auth:     auth,
		topics:   NewTopicService(c, auth, store, board, clk.Now),
		sessions: NewSessionService(c, auth, store, board, quietLogger(), clk.Now),
		votes:    NewVoteService(c, auth, board),
	}
}

// newDevEnv runs the services against devapi on an in-memory listener.
func newDevEnv(t *testing.T) *env {
	t.Helper()

	clk := &clock{now: t0}
	srv := devapi.New(devapi.Config{Secret: []byte("test"), Now: clk.Now})
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	c := client.NewHTTPClient("http://devapi/api", client.WithDial(func(string) (net.Conn, error) {
		return ln.Dial()
	}))
	t.Cleanup(func() { _ = c.Close() })

	return newEnv(t, c, clk)
}

// fakeClient lets tests script individual remote calls. Unscripted calls
// succeed with zero values.
type fakeClient struct {
	mu sync.Mutex

	TopicsRet  []models.Topic
	TopicsErr  error
	CreateRet  *models.Topic
	OpenErr    error
	SessionRet *models.VotingSession
	SessionErr error
	VoteErr    error
	ResultRet  map[int64]models.VoteTally
	ResultErr  error
	AuthRet    *client.AuthResult
	AuthErr    error

	// OnList runs before ListTopics returns.
	OnList func()

	Calls []string
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
}

func (f *fakeClient) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { f.record("Ping"); return nil }

func (f *fakeClient) Register(ctx context.Context, name, cpf, password string) (*client.AuthResult, error) {
	f.record("Register")
	return f.AuthRet, f.AuthErr
}

func (f *fakeClient) Login(ctx context.Context, cpf, password string) (*client.AuthResult, error) {
	f.record("Login")
	return f.AuthRet, f.AuthErr
}

func (f *fakeClient) ListTopics(ctx context.Context) ([]models.Topic, error) {
	f.record("ListTopics")
	if f.OnList != nil {
		f.OnList()
	}
	return f.TopicsRet, f.TopicsErr
}

func (f *fakeClient) CreateTopic(ctx context.Context, token, name string) (*models.Topic, error) {
	f.record("CreateTopic")
	if f.CreateRet != nil {
		return f.CreateRet, nil
	}
	return &models.Topic{Name: name}, nil
}

func (f *fakeClient) OpenSession(ctx context.Context, token string, topicID int64, minutes int) error {
	f.record("OpenSession")
	return f.OpenErr
}

func (f *fakeClient) GetSession(ctx context.Context, topicID int64) (*models.VotingSession, error) {
	f.record("GetSession")
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	if f.SessionRet == nil {
		return nil, &client.APIError{StatusCode: 404, Message: "not found"}
	}
	return f.SessionRet, nil
}

func (f *fakeClient) Vote(ctx context.Context, token string, topicID int64, choice models.Choice) error {
	f.record("Vote")
	return f.VoteErr
}

func (f *fakeClient) Result(ctx context.Context, topicID int64) (*models.VoteTally, error) {
	f.record("Result")
	if f.ResultErr != nil {
		return nil, f.ResultErr
	}
	t := f.ResultRet[topicID]
	t.TopicID = topicID
	return &t, nil
}
