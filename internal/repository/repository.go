package repository

import (
	"context"
	"errors"
	"time"

	"github.com/azhengyongqin/ordertracker/internal/model"
)

// ErrConflict task_uuid 唯一约束冲突
var ErrConflict = errors.New("task_uuid 已存在")

// OrderTask 表示一次商品下单任务
type OrderTask struct {
	ID              int64             `json:"id"`
	TaskUUID        string            `json:"task_uuid"`
	UserName        string            `json:"user_name"`
	ShopName        string            `json:"shop_name"`
	ProductURL      string            `json:"product_url"`
	ProductPrice    float64           `json:"product_price"`
	ProductSKU      string            `json:"product_sku"`
	Status          model.OrderStatus `json:"order_status"`
	ErrorMessage    string            `json:"error_message,omitempty"`
	OrderID         string            `json:"order_id,omitempty"`
	AlipayTradeNo   string            `json:"alipay_trade_no,omitempty"`
	ReceiverName    string            `json:"receiver_name,omitempty"`
	ReceiverAddress string            `json:"receiver_address,omitempty"`
	ReceiverPhone   string            `json:"receiver_phone,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// ListOrdersFilter 任务列表查询过滤条件
type ListOrdersFilter struct {
	UserName string
	ShopName string
	Status   model.OrderStatus // 0 表示不过滤
	Limit    int
	Offset   int
}

// OrderTaskStats 下单任务统计
type OrderTaskStats struct {
	ProcessingCount int64 `json:"processing_count"`
	CompletedCount  int64 `json:"completed_count"`
	FailedCount     int64 `json:"failed_count"`
	TotalCount      int64 `json:"total_count"`
}

// OrderTaskRepository 下单任务仓储接口
// 抽象持久化层：MySQL/PostgreSQL/SQLite 由 DSN 决定
type OrderTaskRepository interface {
	// Insert 插入新任务，由存储层分配 id/created_at/updated_at；
	// task_uuid 冲突时返回 ErrConflict
	Insert(ctx context.Context, t OrderTask) (OrderTask, error)

	// FindByTaskUUID 根据 task_uuid 查询任务，不存在时返回 (nil, nil)
	FindByTaskUUID(ctx context.Context, taskUUID string) (*OrderTask, error)

	// FindRecentByUserShop 查询 (user, shop) 在 since 之后创建的最近一条任务，
	// 不存在时返回 (nil, nil)。用于 24 小时冷却检查。
	FindRecentByUserShop(ctx context.Context, userName, shopName string, since time.Time) (*OrderTask, error)

	// FindCurrentByUser 查询用户当前进行中的最新任务，不存在时返回 (nil, nil)
	FindCurrentByUser(ctx context.Context, userName string) (*OrderTask, error)

	// Update 持久化任务的全部字段并刷新 updated_at
	Update(ctx context.Context, t OrderTask) error

	// List 查询任务列表（支持分页和过滤）
	List(ctx context.Context, f ListOrdersFilter) ([]OrderTask, error)

	// Count 统计任务总数
	Count(ctx context.Context, f ListOrdersFilter) (int64, error)

	// Stats 按状态统计任务数量，userName 为空时统计全部
	Stats(ctx context.Context, userName string) (*OrderTaskStats, error)

	// Transaction 在单个事务内执行 fn；fn 返回错误时回滚，否则提交
	Transaction(ctx context.Context, fn func(OrderTaskRepository) error) error
}
