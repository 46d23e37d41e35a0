package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderbot/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// OrderPlacedEvent はredisのリストに積む注文通知
type OrderPlacedEvent struct {
	OrderID   int64             `json:"order_id"`
	UserID    int64             `json:"user_id"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	Lines     []OrderPlacedLine `json:"lines"`
}

type OrderPlacedLine struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RedisPublisher は確定した注文を RPUSH する（管理ツールが BLPOP で読む）
type RedisPublisher struct {
	client *redis.Client
	key    string
}

func NewRedisPublisher(client *redis.Client, key string) *RedisPublisher {
	return &RedisPublisher{client: client, key: key}
}

func (p *RedisPublisher) PublishOrderPlaced(ctx context.Context, order model.Order, lines []model.OrderLine) error {
	ev := OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Phone:     order.Phone,
		Address:   order.Address,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.UTC(),
		Lines:     make([]OrderPlacedLine, 0, len(lines)),
	}
	for _, l := range lines {
		ev.Lines = append(ev.Lines, OrderPlacedLine{
			ItemID:    l.ItemID,
			Name:      l.ItemNameSnapshot,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPriceSnapshot,
		})
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event failed: %w", err)
	}
	if err := p.client.RPush(ctx, p.key, data).Err(); err != nil {
		return fmt.Errorf("redis rpush failed: %w", err)
	}
	return nil
}
