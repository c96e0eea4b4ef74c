package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teamdesk/cmd/server/ctxkeys"
	"teamdesk/cmd/server/handlers/httperr"
	"teamdesk/internal/logger"
	"teamdesk/internal/services/realtime"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	// WSClosePolicyViolation represents WebSocket close code for policy violation
	WSClosePolicyViolation = 1008

	// WebSocket timeout constants
	wsWriteTimeout     = 10 * time.Second // Timeout for writing messages to WebSocket
	wsPingInterval     = 25 * time.Second // Interval for sending ping messages
	wsPingWriteTimeout = 5 * time.Second  // Timeout for writing ping messages

	msgFailedToCloseWebSocketConnection = "failed to close WebSocket connection"
)

// Hub is the connection registry the transport feeds. Client-sent
// frames only ever reach these methods; domain notifications never
// originate here.
type Hub interface {
	Register(userID bson.ObjectID) (*realtime.Client, func())
	Join(connID realtime.ConnID, name string)
	JoinRoom(connID realtime.ConnID, roomID string)
	LeaveRoom(connID realtime.ConnID, roomID string)
	SendMessage(connID realtime.ConnID, roomID, text string)
	Typing(connID realtime.ConnID, roomID string, typing bool)
	SubscribeNotifications(connID realtime.ConnID)
	UnsubscribeNotifications(connID realtime.ConnID)
}

// WebSocketHandlers contains WebSocket-related handlers
type WebSocketHandlers struct {
	hub           Hub
	jwtSecret     string
	maxSessionSec int
}

// NewWebSocketHandlers creates new WebSocket handlers
func NewWebSocketHandlers(hub Hub, jwtSecret string, maxSessionSec int) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:           hub,
		jwtSecret:     jwtSecret,
		maxSessionSec: maxSessionSec,
	}
}

// WSUpgrade upgrades the HTTP connection to WebSocket. The upgrade is
// refused without a valid token, so an unauthenticated socket never
// reaches the hub.
func (h *WebSocketHandlers) WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		token := c.Query("token")
		if token == "" {
			logger.L().Warn("missing token in websocket upgrade", "handler", "WSUpgrade", "path", c.Path())
			return httperr.Fail(httperr.E{
				Status:  401,
				Message: "Missing token",
			})
		}

		userID, err := h.validateJWT(token)
		if err != nil {
			logger.L().Warn("invalid token in websocket upgrade", "handler", "WSUpgrade", "path", c.Path(), "error", err)
			return httperr.Fail(httperr.E{
				Status:  401,
				Message: "Invalid token",
			})
		}

		c.Locals(ctxkeys.UserIDKey, userID.Hex())
		// Use Fiber's request-bound context so the stream handler gets a real context.Context.
		c.Locals(ctxkeys.ParentCtxKey, c.UserContext())

		return c.Next()
	}

	logger.L().Warn("websocket upgrade required", "handler", "WSUpgrade", "path", c.Path())
	return httperr.Fail(httperr.E{
		Status:  400,
		Message: "WebSocket upgrade required",
	})
}

// WSRealtime handles an established realtime socket: registers the
// connection with the hub, pumps hub events out, and dispatches
// inbound frames.
func (h *WebSocketHandlers) WSRealtime(c *websocket.Conn) {
	userID, parentCtx, err := h.connIdentity(c)
	if err != nil {
		h.closeConnection(c)
		return
	}

	ctx, cancelCtx := context.WithCancel(parentCtx)
	defer cancelCtx()

	client, cancel := h.hub.Register(userID)
	defer cancel()

	connID := client.ID.String()
	logger.L().Info("WebSocket connection established", "user_id", userID.Hex(), "conn_id", connID)

	sessionTimer := h.startSessionTimer(c, userID, connID, cancelCtx)
	defer h.stopSessionTimer(sessionTimer)

	ping := h.startKeepAlive(c, userID, connID)
	defer ping.Stop()

	go h.handleOutgoingMessages(ctx, c, client, userID, connID)

	h.handleIncomingMessages(c, client, userID, connID)

	logger.L().Info("WebSocket connection closed", "user_id", userID.Hex(), "conn_id", connID)
	cancelCtx()
}

// connIdentity recovers the verified identity stored by WSUpgrade.
func (h *WebSocketHandlers) connIdentity(c *websocket.Conn) (bson.ObjectID, context.Context, error) {
	userIDStr, ok := c.Locals(ctxkeys.UserIDKey).(string)
	if !ok {
		logger.L().Error(ctxkeys.UserIDKey + " not found in WebSocket context")
		return bson.ObjectID{}, nil, fmt.Errorf(ctxkeys.UserIDKey + " not found")
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Error("invalid "+ctxkeys.UserIDKey+" in WebSocket context", ctxkeys.UserIDKey, userIDStr, "error", err)
		return bson.ObjectID{}, nil, fmt.Errorf("invalid %s: %w", ctxkeys.UserIDKey, err)
	}

	parentCtx, ok := c.Locals(ctxkeys.ParentCtxKey).(context.Context)
	if !ok {
		logger.L().Error(ctxkeys.ParentCtxKey + " not found in WebSocket context")
		return bson.ObjectID{}, nil, fmt.Errorf(ctxkeys.ParentCtxKey + " not found")
	}

	return userID, parentCtx, nil
}

// closeConnection safely closes the WebSocket connection
func (h *WebSocketHandlers) closeConnection(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		logger.L().Error(msgFailedToCloseWebSocketConnection, "error", err)
	}
}

// startSessionTimer creates and starts the session timeout timer
func (h *WebSocketHandlers) startSessionTimer(c *websocket.Conn, userID bson.ObjectID, connID string, cancelCtx context.CancelFunc) *time.Timer {
	return time.AfterFunc(time.Duration(h.maxSessionSec)*time.Second, func() {
		logger.L().Info("WebSocket session timeout", "user_id", userID.Hex(), "conn_id", connID)
		h.sendCloseMessage(c, userID, connID)
		h.closeConnection(c)
		cancelCtx()
	})
}

// stopSessionTimer safely stops the session timer
func (h *WebSocketHandlers) stopSessionTimer(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

// sendCloseMessage sends a close frame to the client
func (h *WebSocketHandlers) sendCloseMessage(c *websocket.Conn, userID bson.ObjectID, connID string) {
	err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(WSClosePolicyViolation, "session timeout"))
	if err != nil {
		logger.L().Error("failed to send close message", "error", err, "user_id", userID.Hex(), "conn_id", connID)
	}
}

// startKeepAlive starts the keep-alive ping mechanism
func (h *WebSocketHandlers) startKeepAlive(c *websocket.Conn, userID bson.ObjectID, connID string) *time.Ticker {
	ping := time.NewTicker(wsPingInterval)
	go func() {
		for range ping.C {
			if h.sendPing(c, userID, connID) != nil {
				return
			}
		}
	}()
	return ping
}

// sendPing sends a ping message to the client
func (h *WebSocketHandlers) sendPing(c *websocket.Conn, userID bson.ObjectID, connID string) error {
	if err := c.SetWriteDeadline(time.Now().Add(wsPingWriteTimeout)); err != nil {
		logger.L().Error("failed to set write deadline", "error", err, "user_id", userID.Hex(), "conn_id", connID)
		return err
	}
	if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
		logger.L().Warn("failed to write ping message", "error", err, "user_id", userID.Hex(), "conn_id", connID)
		return err
	}
	return nil
}

// handleOutgoingMessages pumps hub events out to the client
func (h *WebSocketHandlers) handleOutgoingMessages(ctx context.Context, c *websocket.Conn, client *realtime.Client, userID bson.ObjectID, connID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().Error("panic in WebSocket sender", "error", r, "user_id", userID.Hex())
		}
	}()

	for {
		select {
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if h.sendEvent(c, event, userID, connID) != nil {
				return
			}
		case <-client.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sendEvent sends an event to the client
func (h *WebSocketHandlers) sendEvent(c *websocket.Conn, event realtime.Event, userID bson.ObjectID, connID string) error {
	if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		logger.L().Error("failed to set write deadline", "error", err, "user_id", userID.Hex(), "conn_id", connID)
		return err
	}
	if err := c.WriteJSON(event); err != nil {
		logger.L().Error("failed to write WebSocket message", "error", err, "user_id", userID.Hex(), "conn_id", connID)
		return err
	}
	return nil
}

// inboundFrame is the wire shape of a client-sent event.
type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	Name string `json:"name"`
}

type roomPayload struct {
	RoomID string `json:"room_id"`
}

type messagePayload struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

// handleIncomingMessages reads client frames and dispatches them to
// the hub. A malformed frame is logged and skipped, never fatal.
func (h *WebSocketHandlers) handleIncomingMessages(c *websocket.Conn, client *realtime.Client, userID bson.ObjectID, connID string) {
	for {
		messageType, payload, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Error("WebSocket error", "error", err, "user_id", userID.Hex(), "conn_id", connID)
			}
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logger.L().Warn("malformed websocket frame", "error", err, "user_id", userID.Hex(), "conn_id", connID)
			continue
		}

		h.dispatch(client, frame, userID, connID)
	}
}

// dispatch routes one inbound frame to the matching hub operation.
func (h *WebSocketHandlers) dispatch(client *realtime.Client, frame inboundFrame, userID bson.ObjectID, connID string) {
	switch frame.Type {
	case realtime.EventUserJoin:
		var p joinPayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.Join(client.ID, p.Name)
		}
	case realtime.EventRoomJoin:
		var p roomPayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.JoinRoom(client.ID, p.RoomID)
		}
	case realtime.EventRoomLeave:
		var p roomPayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.LeaveRoom(client.ID, p.RoomID)
		}
	case realtime.EventMessageSend:
		var p messagePayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.SendMessage(client.ID, p.RoomID, p.Text)
		}
	case realtime.EventTyping:
		var p roomPayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.Typing(client.ID, p.RoomID, true)
		}
	case realtime.EventStopTyping:
		var p roomPayload
		if h.decode(frame, &p, userID, connID) {
			h.hub.Typing(client.ID, p.RoomID, false)
		}
	case realtime.EventNotifySubscribe:
		h.hub.SubscribeNotifications(client.ID)
	case realtime.EventNotifyUnsubscribe:
		h.hub.UnsubscribeNotifications(client.ID)
	default:
		logger.L().Warn("unknown websocket event type", "type", frame.Type, "user_id", userID.Hex(), "conn_id", connID)
	}
}

func (h *WebSocketHandlers) decode(frame inboundFrame, out any, userID bson.ObjectID, connID string) bool {
	if len(frame.Data) == 0 {
		logger.L().Warn("websocket frame missing data", "type", frame.Type, "user_id", userID.Hex(), "conn_id", connID)
		return false
	}
	if err := json.Unmarshal(frame.Data, out); err != nil {
		logger.L().Warn("malformed websocket payload", "type", frame.Type, "error", err, "user_id", userID.Hex(), "conn_id", connID)
		return false
	}
	return true
}

// validateJWT validates the JWT token and extracts the user id
func (h *WebSocketHandlers) validateJWT(tokenString string) (bson.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})

	if err != nil {
		return bson.ObjectID{}, err
	}

	if !token.Valid {
		return bson.ObjectID{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("invalid claims")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("missing user_id")
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("invalid user_id: %w", err)
	}

	return userID, nil
}
