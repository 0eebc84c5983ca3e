package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/azhengyongqin/ordertracker/internal/model"
)

// OrderRepo OrderTaskRepository 的 GORM 实现
type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Insert(ctx context.Context, t OrderTask) (OrderTask, error) {
	if t.TaskUUID == "" {
		return OrderTask{}, errors.New("task_uuid 不能为空")
	}
	m := OrderTaskToModel(t)
	// id/created_at/updated_at 由存储层分配
	m.ID = 0
	m.CreatedAt = time.Time{}
	m.UpdatedAt = time.Time{}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return OrderTask{}, ErrConflict
		}
		return OrderTask{}, err
	}
	return m.ToOrderTask(), nil
}

func (r *OrderRepo) FindByTaskUUID(ctx context.Context, taskUUID string) (*OrderTask, error) {
	var m OrderTaskModel
	err := r.db.WithContext(ctx).
		Where("task_uuid = ?", taskUUID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := m.ToOrderTask()
	return &t, nil
}

func (r *OrderRepo) FindRecentByUserShop(ctx context.Context, userName, shopName string, since time.Time) (*OrderTask, error) {
	var m OrderTaskModel
	err := r.db.WithContext(ctx).
		Where("user_name = ? AND shop_name = ? AND created_at > ?", userName, shopName, since).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := m.ToOrderTask()
	return &t, nil
}

func (r *OrderRepo) FindCurrentByUser(ctx context.Context, userName string) (*OrderTask, error) {
	var m OrderTaskModel
	err := r.db.WithContext(ctx).
		Where("user_name = ? AND order_status = ?", userName, int(model.StatusProcessing)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := m.ToOrderTask()
	return &t, nil
}

func (r *OrderRepo) Update(ctx context.Context, t OrderTask) error {
	if t.ID == 0 {
		return errors.New("id 不能为空")
	}
	m := OrderTaskToModel(t)
	// updated_at 由 autoUpdateTime 刷新
	m.UpdatedAt = time.Time{}
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *OrderRepo) List(ctx context.Context, f ListOrdersFilter) ([]OrderTask, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var ms []OrderTaskModel
	err := r.filtered(ctx, f).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	out := make([]OrderTask, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToOrderTask())
	}
	return out, nil
}

func (r *OrderRepo) Count(ctx context.Context, f ListOrdersFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, f).Count(&count).Error
	return count, err
}

func (r *OrderRepo) Stats(ctx context.Context, userName string) (*OrderTaskStats, error) {
	q := r.db.WithContext(ctx).Model(&OrderTaskModel{})
	if userName != "" {
		q = q.Where("user_name = ?", userName)
	}

	rows, err := q.Select("order_status, count(*) as cnt").
		Group("order_status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &OrderTaskStats{}
	for rows.Next() {
		var status int
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		stats.TotalCount += count

		switch model.OrderStatus(status) {
		case model.StatusProcessing:
			stats.ProcessingCount = count
		case model.StatusCompleted:
			stats.CompletedCount = count
		case model.StatusFailed:
			stats.FailedCount = count
		}
	}
	return stats, rows.Err()
}

// Transaction 在单个事务内执行 fn；fn 内的仓储操作都走同一个事务连接
func (r *OrderRepo) Transaction(ctx context.Context, fn func(OrderTaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepo{db: tx})
	})
}

func (r *OrderRepo) filtered(ctx context.Context, f ListOrdersFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&OrderTaskModel{})
	if f.UserName != "" {
		q = q.Where("user_name = ?", f.UserName)
	}
	if f.ShopName != "" {
		q = q.Where("shop_name = ?", f.ShopName)
	}
	if f.Status != 0 {
		q = q.Where("order_status = ?", int(f.Status))
	}
	return q
}
