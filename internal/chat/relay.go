// Package chat relays client chat messages to the upstream Spark AI
// WebSocket API and streams the answer fragments back.
package chat

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"tourdiary/internal/config"
	"tourdiary/internal/middleware"

	"github.com/gorilla/websocket"
)

// Frame is a message sent to the client over the chat socket.
type Frame struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	OnlineInfo string `json:"onlineInfo,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Frame types emitted to the client.
const (
	FrameChat  = "chat"
	FrameDone  = "done"
	FrameEnd   = "end"
	FrameError = "error"
	FramePing  = "ping"
)

// Relay owns the upstream credentials and dialer.
type Relay struct {
	wsURL     string
	appID     string
	apiKey    string
	apiSecret string
	dialer    *websocket.Dialer
	now       func() time.Time
}

// NewRelay creates a relay from the application config.
func NewRelay(cfg *config.Config) *Relay {
	return &Relay{
		wsURL:     cfg.ChatWSURL,
		appID:     cfg.ChatAppID,
		apiKey:    cfg.ChatAPIKey,
		apiSecret: cfg.ChatAPISecret,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// specialChars are stripped from model output before it reaches the client.
const specialChars = "*#~`@$%^&()=+{}[]|\\<>"

// FilterSpecialCharacters removes markdown-ish punctuation the mobile client
// cannot render.
func FilterSpecialCharacters(text string) string {
	if text == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(specialChars, r) {
			return -1
		}
		return r
	}, text)
}

// SignURL builds the authenticated upstream URL. The signature covers the
// host, date and request-line headers, HMAC-SHA256 over the API secret.
func (r *Relay) SignURL() (string, error) {
	u, err := url.Parse(r.wsURL)
	if err != nil {
		return "", fmt.Errorf("parse upstream url: %w", err)
	}

	date := r.now().UTC().Format(time.RFC1123)
	// The upstream expects "GMT", not the Go RFC1123 "UTC" suffix.
	date = strings.Replace(date, "UTC", "GMT", 1)

	origin := fmt.Sprintf("host: %s\ndate: %s\nGET %s HTTP/1.1", u.Host, date, u.Path)
	mac := hmac.New(sha256.New, []byte(r.apiSecret))
	mac.Write([]byte(origin))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	authOrigin := fmt.Sprintf(
		`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		r.apiKey, signature,
	)
	authorization := base64.StdEncoding.EncodeToString([]byte(authOrigin))

	q := url.Values{}
	q.Set("authorization", authorization)
	q.Set("date", date)
	q.Set("host", u.Host)
	return r.wsURL + "?" + q.Encode(), nil
}

// chatRequest is the upstream request envelope.
type chatRequest struct {
	Header struct {
		AppID string `json:"app_id"`
		UID   string `json:"uid"`
	} `json:"header"`
	Parameter struct {
		Chat struct {
			Domain      string  `json:"domain"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		} `json:"chat"`
	} `json:"parameter"`
	Payload struct {
		Message struct {
			Text []chatTurn `json:"text"`
		} `json:"message"`
	} `json:"payload"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// upstreamResponse mirrors the fields of the Spark answer frames we consume.
type upstreamResponse struct {
	Header struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"header"`
	Payload *struct {
		Choices *struct {
			Text         json.RawMessage `json:"text"`
			PluginOutput *struct {
				WebSearch *struct {
					Output string `json:"output"`
				} `json:"web_search"`
			} `json:"plugin_output"`
		} `json:"choices"`
	} `json:"payload"`
}

// statusLast marks the final frame of an upstream answer.
const statusLast = 2

func (r *Relay) buildRequest(message, uid string) chatRequest {
	var req chatRequest
	req.Header.AppID = r.appID
	req.Header.UID = uid
	req.Parameter.Chat.Domain = "generalv3.5"
	req.Parameter.Chat.Temperature = 0.5
	req.Parameter.Chat.MaxTokens = 4096
	req.Payload.Message.Text = []chatTurn{{Role: "user", Content: message}}
	return req
}

// extractContent handles the upstream's array, object and bare-string text
// shapes.
func extractContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []chatTurn
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return list[0].Content
	}
	var single chatTurn
	if err := json.Unmarshal(raw, &single); err == nil {
		return single.Content
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	return string(raw)
}

// Chat streams one question through the upstream API, emitting frames until
// the answer completes, the upstream fails, or ctx is cancelled. The end
// frame is always emitted when the upstream connection goes away.
func (r *Relay) Chat(ctx context.Context, message, uid string, emit func(Frame) error) {
	signed, err := r.SignURL()
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Chat relay: sign URL failed", slog.String("error", err.Error()))
		_ = emit(Frame{Type: FrameError, Error: "AI service unavailable"})
		return
	}

	upstream, _, err := r.dialer.DialContext(ctx, signed, nil)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Chat relay: upstream dial failed", slog.String("error", err.Error()))
		_ = emit(Frame{Type: FrameError, Error: "Failed to connect to AI service"})
		return
	}
	defer upstream.Close()

	middleware.ActiveRelaySockets.Inc()
	defer middleware.ActiveRelaySockets.Dec()

	// Close the upstream socket when the client goes away.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = upstream.Close()
		case <-done:
		}
	}()

	payload, err := json.Marshal(r.buildRequest(message, uid))
	if err != nil {
		_ = emit(Frame{Type: FrameError, Error: "AI service unavailable"})
		return
	}
	if err := upstream.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = emit(Frame{Type: FrameError, Error: "Failed to connect to AI service"})
		return
	}

	for {
		_, data, err := upstream.ReadMessage()
		if err != nil {
			// Normal closure after a done frame still notifies the client
			// that the upstream session ended.
			_ = emit(Frame{Type: FrameEnd})
			return
		}

		var resp upstreamResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			middleware.Logger.WarnContext(ctx, "Chat relay: malformed upstream frame", slog.String("error", err.Error()))
			continue
		}

		if resp.Header.Code != 0 {
			middleware.RelayFrames.WithLabelValues(FrameError).Inc()
			_ = emit(Frame{
				Type:  FrameError,
				Error: fmt.Sprintf("AI service error %d: %s", resp.Header.Code, resp.Header.Message),
			})
			_ = emit(Frame{Type: FrameEnd})
			return
		}

		if resp.Payload != nil && resp.Payload.Choices != nil {
			if content := extractContent(resp.Payload.Choices.Text); content != "" {
				middleware.RelayFrames.WithLabelValues(FrameChat).Inc()
				if err := emit(Frame{Type: FrameChat, Content: FilterSpecialCharacters(content)}); err != nil {
					return
				}
			}
			if po := resp.Payload.Choices.PluginOutput; po != nil && po.WebSearch != nil && po.WebSearch.Output != "" {
				middleware.RelayFrames.WithLabelValues(FrameChat).Inc()
				if err := emit(Frame{Type: FrameChat, OnlineInfo: FilterSpecialCharacters(po.WebSearch.Output)}); err != nil {
					return
				}
			}
		}

		if resp.Header.Status == statusLast {
			middleware.RelayFrames.WithLabelValues(FrameDone).Inc()
			_ = emit(Frame{Type: FrameDone})
			_ = emit(Frame{Type: FrameEnd})
			return
		}
	}
}
