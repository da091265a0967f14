package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/logger"
	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 默认消息最大大小
	defaultMaxMessageSize = 64 * 1024

	sendBufferSize = 64
)

// Client 代表一个入座玩家的 WebSocket 连接
type Client struct {
	PlayerID string

	table          *Table
	conn           *websocket.Conn
	send           chan []byte
	maxMessageSize int64

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(t *Table, conn *websocket.Conn, playerID string, maxMessageSize int64) *Client {
	if maxMessageSize <= 0 {
		maxMessageSize = defaultMaxMessageSize
	}
	return &Client{
		PlayerID:       playerID,
		table:          t,
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		maxMessageSize: maxMessageSize,
	}
}

// GetPlayerID 返回玩家 ID
func (c *Client) GetPlayerID() string {
	return c.PlayerID
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.table.Detach(c)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			return
		}

		msg, err := codec.Decode(message)
		if err != nil {
			c.SendMessage(codec.ErrorMessageFor(apperrors.ErrInvalidMsg.WithDetail("%v", err)))
			continue
		}
		c.handle(msg)
		codec.PutMessage(msg)
	}
}

func (c *Client) handle(msg *protocol.Message) {
	switch {
	case msg.Type == protocol.MsgPing:
		c.handlePing(msg)
	case msg.Type.IsAction():
		if err := c.table.Apply(context.Background(), c.PlayerID, msg); err != nil {
			c.SendMessage(codec.ErrorMessageFor(err))
		}
	default:
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s)", msg.Type, c.PlayerID)
		c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

func (c *Client) handlePing(msg *protocol.Message) {
	var clientTS int64
	if p, err := codec.ParsePayload[protocol.PingPayload](msg); err == nil {
		clientTS = p.Timestamp
	}
	c.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: clientTS,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端. It takes ownership of msg and returns it to
// the pool.
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	codec.PutMessage(msg)
	if err != nil {
		log.Printf("消息编码错误: %v", err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		log.Printf("客户端 %s 发送缓冲区已满", c.PlayerID)
		go c.Close()
	}
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
