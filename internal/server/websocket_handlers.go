package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tourdiary/internal/chat"
	"tourdiary/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// UpgradeRequired rejects plain HTTP requests on WebSocket routes.
func (s *Server) UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ChatSocketHandler handles the /ws chat relay endpoint. Each inbound
// {type:"chat"} message is forwarded to the upstream AI service and the answer
// fragments are streamed back on the same socket.
func (s *Server) ChatSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		connID := uuid.NewString()
		middleware.Logger.Info("Chat socket connected", slog.String("conn_id", connID))
		defer middleware.Logger.Info("Chat socket disconnected", slog.String("conn_id", connID))

		// The ping loop and the relay both write; serialize them.
		var mu sync.Mutex
		writeFrame := func(f chat.Frame) error {
			mu.Lock()
			defer mu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			return conn.WriteJSON(f)
		}

		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := writeFrame(chat.Frame{Type: chat.FramePing}); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		for {
			var msg struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg.Type {
			case chat.FrameChat:
				if strings.TrimSpace(msg.Message) == "" {
					_ = writeFrame(chat.Frame{Type: chat.FrameError, Error: "Message is required"})
					continue
				}
				s.relay.Chat(ctx, msg.Message, connID, writeFrame)
			default:
				_ = writeFrame(chat.Frame{Type: chat.FrameError, Error: "Unknown message type"})
			}
		}
	})
}
