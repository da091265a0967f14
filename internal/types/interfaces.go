package types

import (
	"context"

	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/server/storage"
)

// ClientInterface 定义牌桌上一个连接的接口
type ClientInterface interface {
	GetPlayerID() string
	SendMessage(msg *protocol.Message)
	Close()
}

// TableStore 牌桌快照存储接口
type TableStore interface {
	SaveTable(ctx context.Context, data *storage.TableData) error
	LoadTable(ctx context.Context, id string) (*storage.TableData, error)
	DeleteTable(ctx context.Context, id string) error
	ListTableIDs(ctx context.Context) ([]string, error)
}
