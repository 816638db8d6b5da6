package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-leave-portal/internal/events"
	"go-leave-portal/internal/middleware"
	"go-leave-portal/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "hub-test-secret"

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		Role:   "employee",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func startHub(t *testing.T) (*notification.Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := notification.NewHub(testSecret, nil)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.ServeWs)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHub_PushesOnlyToTheOwner(t *testing.T) {
	hub, url := startHub(t)
	owner, other := uuid.NewString(), uuid.NewString()

	ownerConn, _, err := websocket.DefaultDialer.Dial(url+"?token="+signToken(t, owner), nil)
	require.NoError(t, err)
	defer ownerConn.Close()
	otherConn, _, err := websocket.DefaultDialer.Dial(url+"?token="+signToken(t, other), nil)
	require.NoError(t, err)
	defer otherConn.Close()

	require.Eventually(t, func() bool { return hub.ConnectedUsers() == 2 }, time.Second, 10*time.Millisecond)

	hub.NotifyLeave(context.Background(), events.LeaveEvent{
		EventType:  events.LeaveAdminApproved,
		EmployeeID: owner,
		LeaveType:  "Sick",
		StartDate:  "2026-01-10",
		EndDate:    "2026-01-12",
	})

	_ = ownerConn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := ownerConn.ReadMessage()
	require.NoError(t, err)
	var frame notification.PushMessage
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, events.LeaveAdminApproved, frame.Type)
	assert.Equal(t, "Leave approved", frame.Title)

	_ = otherConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = otherConn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RejectsBadTokens(t *testing.T) {
	_, url := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_SendToUserWithoutConnections(t *testing.T) {
	hub, _ := startHub(t)
	assert.False(t, hub.SendToUser(uuid.NewString(), []byte(`{}`)))
}
