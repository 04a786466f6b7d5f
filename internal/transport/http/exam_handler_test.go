package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"studyhub/internal/domain"
)

func TestExamOverWebSocket(t *testing.T) {
	env := newTestEnv(t)
	student := env.signUp(t, "s@example.com", "Sara", domain.RoleStudent)
	_, err := env.store.CreateQuiz(context.Background(), domain.QuizInput{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "4"})
	require.NoError(t, err)

	server := httptest.NewServer(env.e)
	defer server.Close()

	conn := dialExam(t, server, student)
	defer conn.Close()

	typ, payload := readNext(t, conn)
	require.Equal(t, "state", typ)
	require.Equal(t, "notStarted", payload["phase"])

	send(t, conn, map[string]any{"type": "start"})
	waitFor(t, conn, "state", func(p map[string]any) bool { return p["phase"] == "inProgress" })

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"option": "4"}})
	waitFor(t, conn, "state", func(p map[string]any) bool { return p["selected"] == "4" })

	send(t, conn, map[string]any{"type": "submit"})
	waitFor(t, conn, "state", func(p map[string]any) bool { return p["phase"] == "awaitingConfirmation" })

	send(t, conn, map[string]any{"type": "confirm"})
	result := waitFor(t, conn, "result", nil)
	require.EqualValues(t, 1, result["totalMarks"])

	attempts, err := env.store.ListAttempts(context.Background())
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Equal(t, "Sara", attempts[0].StudentName)
}

func TestExamRejectsUnknownMessages(t *testing.T) {
	env := newTestEnv(t)
	student := env.signUp(t, "s@example.com", "Sara", domain.RoleStudent)

	server := httptest.NewServer(env.e)
	defer server.Close()

	conn := dialExam(t, server, student)
	defer conn.Close()
	readNext(t, conn)

	send(t, conn, map[string]any{"type": "dance"})
	errPayload := waitFor(t, conn, "error", nil)
	require.Equal(t, "unsupported message type", errPayload["message"])

	send(t, conn, map[string]any{"type": "confirm"})
	errPayload = waitFor(t, conn, "error", nil)
	require.Equal(t, domain.ErrInvalidPhase.Error(), errPayload["message"])
}

func TestExamRequiresStudent(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signUp(t, "t@example.com", "Tom", domain.RoleTeacher)

	server := httptest.NewServer(env.e)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, teacher), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/exam?token=" + token
}

func dialExam(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func readNext(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

// waitFor reads until a message of typ satisfying match arrives.
func waitFor(t *testing.T, conn *websocket.Conn, typ string, match func(map[string]any) bool) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		got, payload := readNext(t, conn)
		if got == typ && (match == nil || match(payload)) {
			return payload
		}
	}
	t.Fatalf("no %s message arrived", typ)
	return nil
}
