package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/kiryu-dev/tetris/internal/usecase/game"
	"github.com/kiryu-dev/tetris/internal/usecase/hub"
	"github.com/kiryu-dev/tetris/pkg/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeReporter struct {
	best int64
	rows []domain.LeaderboardRow
	err  error
}

func (r fakeReporter) Run(context.Context) error {
	return nil
}

func (r fakeReporter) BestScore() int64 {
	return r.best
}

func (r fakeReporter) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.rows[:min(limit, len(r.rows))], nil
}

func newTestServer(t *testing.T, reporter domain.ReporterUseCase) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	h := hub.New(func(timer domain.FallTimer) domain.GameUseCase {
		return game.New(domain.DefaultGameConfig(), timer, game.NewRandomSource(1), logger)
	}, logger)
	s := New(":0", h, reporter, logger)
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg domain.Message
	require.NoError(t, jsoniter.Unmarshal(data, &msg))
	return msg
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd domain.Command) {
	t.Helper()
	data, err := jsoniter.Marshal(domain.Message{
		Type:    domain.CommandMessage,
		Payload: domain.CommandPayload{Command: cmd},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestGameSession(t *testing.T) {
	srv := newTestServer(t, fakeReporter{})
	conn := dial(t, srv)

	welcome := readMessage(t, conn)
	require.Equal(t, domain.Welcome, welcome.Type)
	payload, err := utils.DecodePayload[domain.WelcomePayload](welcome.Payload)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.Session)
	assert.Equal(t, domain.DefaultRows, payload.Rows)
	assert.Equal(t, domain.DefaultCols, payload.Cols)

	sendCommand(t, conn, domain.CommandStart)
	msg := readMessage(t, conn)
	require.Equal(t, domain.SnapshotMessage, msg.Type)
	snapshot, err := utils.DecodePayload[domain.Snapshot](msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, domain.Run, snapshot.State)
	assert.Equal(t, 1, snapshot.Level)
	assert.Len(t, snapshot.Cells, domain.DefaultRows)
	assert.Len(t, snapshot.Current, 4)
	assert.True(t, snapshot.CurrentShape.Valid())
	for _, sq := range snapshot.Current {
		assert.Equal(t, snapshot.CurrentShape.Color(), sq.Color)
	}

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var sessions []domain.SessionInfo
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, payload.Session, sessions[0].ID)
	assert.Equal(t, domain.Run, sessions[0].State)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, fakeReporter{best: 420})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health domain.HealthCheckResponse
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, domain.HealthCheckResponse{Status: "ok", BestScore: 420}, health)
}

func TestLeaderboard(t *testing.T) {
	rows := []domain.LeaderboardRow{{Session: "a", Score: 300, Level: 4}, {Session: "b", Score: 200, Level: 3}}
	tests := []struct {
		name     string
		reporter fakeReporter
		query    string
		status   int
		want     []domain.LeaderboardRow
	}{
		{"default limit", fakeReporter{rows: rows}, "", http.StatusOK, rows},
		{"explicit limit", fakeReporter{rows: rows}, "?limit=1", http.StatusOK, rows[:1]},
		{"empty", fakeReporter{}, "", http.StatusOK, []domain.LeaderboardRow{}},
		{"bad limit", fakeReporter{rows: rows}, "?limit=zero", http.StatusBadRequest, nil},
		{"not configured", fakeReporter{err: domain.ErrNoLeaderboard}, "", http.StatusNotImplemented, nil},
		{"store failure", fakeReporter{err: errors.New("db down")}, "", http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.reporter)
			resp, err := http.Get(srv.URL + "/leaderboard" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.want == nil {
				return
			}
			var got []domain.LeaderboardRow
			require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapCloseError(t *testing.T) {
	closeErr := &websocket.CloseError{Code: websocket.CloseNormalClosure}
	assert.ErrorIs(t, mapCloseError(closeErr), domain.ErrConnectionClosed)
	assert.ErrorIs(t, mapCloseError(errors.WithMessage(closeErr, "read")), domain.ErrConnectionClosed)
	other := errors.New("boom")
	assert.Equal(t, other, mapCloseError(other))
}
