package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/azhengyongqin/ordertracker/internal/cache"
	"github.com/azhengyongqin/ordertracker/internal/logger"
	"github.com/azhengyongqin/ordertracker/internal/metrics"
	"github.com/azhengyongqin/ordertracker/internal/model"
	"github.com/azhengyongqin/ordertracker/internal/repository"
)

// Locker 创建任务时的互斥锁（可选，Redis 实现见 internal/cache）
type Locker interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, key, token string) error
}

// Options 下单任务业务选项
type Options struct {
	// CooldownWindow 同一 (用户, 店铺) 的下单冷却窗口
	CooldownWindow time.Duration
	// StrictTerminal 为 true 时拒绝修改已完成/已失败的任务
	StrictTerminal bool
	// CreateLockEnabled 为 true 且提供了 Locker 时，
	// 创建任务按 (用户, 店铺) 串行化，消除检查-插入竞态
	CreateLockEnabled bool
}

// OrderService 下单任务生命周期服务
type OrderService struct {
	repo   repository.OrderTaskRepository
	locker Locker
	opts   Options
}

// NewOrderService 创建 OrderService；locker 可为 nil
func NewOrderService(repo repository.OrderTaskRepository, locker Locker, opts Options) *OrderService {
	if opts.CooldownWindow <= 0 {
		opts.CooldownWindow = 24 * time.Hour
	}
	return &OrderService{
		repo:   repo,
		locker: locker,
		opts:   opts,
	}
}

// CreateRequest 创建任务入参（边界层已完成格式校验）
type CreateRequest struct {
	UserName     string
	ShopName     string
	ProductURL   string
	ProductPrice float64
	ProductSKU   string
}

// CooldownInfo 冷却窗口拒绝详情
type CooldownInfo struct {
	TaskUUID         string
	Remaining        time.Duration
	RemainingHours   int
	RemainingMinutes int
}

// CreateResult 创建任务结果
type CreateResult struct {
	Created  bool
	ID       int64
	TaskUUID string
	Message  string
	// Blocking 非 nil 时表示被冷却窗口内的已有任务阻挡
	Blocking *CooldownInfo
}

// Create 创建下单任务。
// 同一 (用户, 店铺) 在冷却窗口内已有任务时返回拒绝结果（不是错误）；
// 存储层故障回滚事务并作为 error 返回。
func (s *OrderService) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-s.opts.CooldownWindow)

	if s.opts.CreateLockEnabled && s.locker != nil {
		lockKey := fmt.Sprintf("ordertracker:create:%s:%s", req.UserName, req.ShopName)
		token := uuid.NewString()
		if err := s.locker.AcquireLock(ctx, lockKey, token, 10*time.Second); err != nil {
			if errors.Is(err, cache.ErrLockHeld) {
				return CreateResult{}, fmt.Errorf("同一用户店铺的下单请求正在处理中")
			}
			return CreateResult{}, err
		}
		defer func() { _ = s.locker.ReleaseLock(ctx, lockKey, token) }()
	}

	var result CreateResult
	err := s.repo.Transaction(ctx, func(r repository.OrderTaskRepository) error {
		// 查询该用户在该店铺冷却窗口内的下单记录
		recent, err := r.FindRecentByUserShop(ctx, req.UserName, req.ShopName, cutoff)
		if err != nil {
			return err
		}

		if recent != nil {
			// 统一到 UTC 再做时间运算，naive 时间戳按 UTC 处理
			recentCreatedUTC := recent.CreatedAt.UTC()
			remaining := s.opts.CooldownWindow - now.Sub(recentCreatedUTC)

			secs := int(remaining.Seconds())
			hours := secs / 3600
			minutes := (secs % 3600) / 60

			windowHours := int(s.opts.CooldownWindow.Hours())
			result = CreateResult{
				Created: false,
				Message: fmt.Sprintf("用户 '%s' 在店铺 '%s' %d小时内已有下单任务，还需等待 %d小时%d分钟后才能重新下单",
					req.UserName, req.ShopName, windowHours, hours, minutes),
				TaskUUID: recent.TaskUUID,
				Blocking: &CooldownInfo{
					TaskUUID:         recent.TaskUUID,
					Remaining:        remaining,
					RemainingHours:   hours,
					RemainingMinutes: minutes,
				},
			}

			logger.L.Warn().
				Str("user_name", req.UserName).
				Str("shop_name", req.ShopName).
				Str("blocking_task_uuid", recent.TaskUUID).
				Int("remaining_hours", hours).
				Int("remaining_minutes", minutes).
				Msg("冷却窗口内已有下单任务")
			metrics.RecordCooldownRejection()
			return nil
		}

		// 创建新的下单任务
		created, err := r.Insert(ctx, repository.OrderTask{
			TaskUUID:     uuid.NewString(),
			UserName:     req.UserName,
			ShopName:     req.ShopName,
			ProductURL:   req.ProductURL,
			ProductPrice: req.ProductPrice,
			ProductSKU:   req.ProductSKU,
			Status:       model.StatusProcessing,
		})
		if err != nil {
			return err
		}

		result = CreateResult{
			Created:  true,
			ID:       created.ID,
			TaskUUID: created.TaskUUID,
			Message:  "商品下单任务创建成功",
		}

		logger.L.Info().
			Int64("id", created.ID).
			Str("task_uuid", created.TaskUUID).
			Str("user_name", created.UserName).
			Str("shop_name", created.ShopName).
			Msg("创建下单任务成功")
		metrics.RecordOrderCreated()
		return nil
	})
	if err != nil {
		metrics.RecordStoreFailure("create")
		return CreateResult{}, err
	}
	return result, nil
}

// UpdateRequest 更新任务入参；nil 字段保持原值不变
type UpdateRequest struct {
	OrderID         *string
	AlipayTradeNo   *string
	ReceiverName    *string
	ReceiverAddress *string
	ReceiverPhone   *string
	Status          *model.OrderStatus
	ErrorMessage    *string
}

// UpdateResult 更新任务结果
type UpdateResult struct {
	Found    bool
	Rejected bool // StrictTerminal 开启且任务已结束
	ID       int64
	TaskUUID string
	// UpdatedFields 本次实际变更的字段描述
	UpdatedFields []string
	Message       string
}

// UpdateInfo 更新订单信息。
// 只覆盖入参中非 nil 的字段；未显式给出状态时按字段组合推断：
// 订单号 + 支付宝交易号 + 收货人同时出现即自动置为完成。
func (s *OrderService) UpdateInfo(ctx context.Context, taskUUID string, req UpdateRequest) (UpdateResult, error) {
	var result UpdateResult
	err := s.repo.Transaction(ctx, func(r repository.OrderTaskRepository) error {
		task, err := r.FindByTaskUUID(ctx, taskUUID)
		if err != nil {
			return err
		}
		if task == nil {
			result = UpdateResult{
				Found:   false,
				Message: fmt.Sprintf("未找到任务UUID: %s", taskUUID),
			}
			logger.L.Warn().Str("task_uuid", taskUUID).Msg("未找到任务")
			return nil
		}

		if s.opts.StrictTerminal && task.Status.Terminal() {
			result = UpdateResult{
				Found:    true,
				Rejected: true,
				ID:       task.ID,
				TaskUUID: task.TaskUUID,
				Message:  fmt.Sprintf("任务已结束（状态: %d），禁止修改", int(task.Status)),
			}
			logger.L.Warn().
				Str("task_uuid", taskUUID).
				Int("order_status", int(task.Status)).
				Msg("任务已结束，拒绝更新")
			return nil
		}

		// 更新字段（只更新提供的非空字段）
		var updatedFields []string

		if req.OrderID != nil {
			task.OrderID = *req.OrderID
			updatedFields = append(updatedFields, fmt.Sprintf("订单号: %s", *req.OrderID))
		}

		if req.AlipayTradeNo != nil {
			task.AlipayTradeNo = *req.AlipayTradeNo
			updatedFields = append(updatedFields, fmt.Sprintf("支付宝交易号: %s", *req.AlipayTradeNo))
		}

		if req.ReceiverName != nil {
			task.ReceiverName = *req.ReceiverName
			updatedFields = append(updatedFields, fmt.Sprintf("收货人: %s", *req.ReceiverName))
		}

		if req.ReceiverAddress != nil {
			task.ReceiverAddress = *req.ReceiverAddress
			updatedFields = append(updatedFields, fmt.Sprintf("收货地址: %s", *req.ReceiverAddress))
		}

		if req.ReceiverPhone != nil {
			task.ReceiverPhone = *req.ReceiverPhone
			updatedFields = append(updatedFields, fmt.Sprintf("收货电话: %s", *req.ReceiverPhone))
		}

		// 状态判定：显式状态优先，否则按字段组合推断
		now := time.Now().UTC()
		if req.Status != nil {
			task.Status = *req.Status
			if *req.Status == model.StatusCompleted {
				// 完成时间无条件覆盖，不存在“取消完成”路径
				task.CompletedAt = &now
			}
			updatedFields = append(updatedFields, fmt.Sprintf("订单状态: %d", int(*req.Status)))
			metrics.RecordStatusTransition(req.Status.Label())
		} else if req.OrderID != nil && req.AlipayTradeNo != nil && req.ReceiverName != nil {
			// 提供了订单号、支付宝交易号和收货人信息，自动设置为完成
			task.Status = model.StatusCompleted
			task.CompletedAt = &now
			updatedFields = append(updatedFields, "订单状态: 2 (完成-自动设置)")
			metrics.RecordStatusTransition(model.StatusCompleted.Label())
		}

		if req.ErrorMessage != nil {
			task.ErrorMessage = *req.ErrorMessage
			updatedFields = append(updatedFields, fmt.Sprintf("错误信息: %s", *req.ErrorMessage))
		}

		if err := r.Update(ctx, *task); err != nil {
			return err
		}

		result = UpdateResult{
			Found:         true,
			ID:            task.ID,
			TaskUUID:      task.TaskUUID,
			UpdatedFields: updatedFields,
			Message:       fmt.Sprintf("订单信息更新成功，共更新 %d 个字段", len(updatedFields)),
		}

		logger.L.Info().
			Str("task_uuid", task.TaskUUID).
			Strs("updated_fields", updatedFields).
			Msg("更新订单信息成功")
		return nil
	})
	if err != nil {
		metrics.RecordStoreFailure("update")
		return UpdateResult{}, err
	}
	return result, nil
}

// CurrentTask 查询用户当前进行中的任务；没有时返回 (nil, nil)
func (s *OrderService) CurrentTask(ctx context.Context, userName string) (*repository.OrderTask, error) {
	task, err := s.repo.FindCurrentByUser(ctx, userName)
	if err != nil {
		metrics.RecordStoreFailure("current")
		return nil, err
	}
	return task, nil
}

// GetTask 按 task_uuid 查询任务详情；不存在时返回 (nil, nil)
func (s *OrderService) GetTask(ctx context.Context, taskUUID string) (*repository.OrderTask, error) {
	return s.repo.FindByTaskUUID(ctx, taskUUID)
}

// ListTasks 查询任务列表和总数
func (s *OrderService) ListTasks(ctx context.Context, f repository.ListOrdersFilter) ([]repository.OrderTask, int64, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats 按状态统计任务数量
func (s *OrderService) Stats(ctx context.Context, userName string) (*repository.OrderTaskStats, error) {
	return s.repo.Stats(ctx, userName)
}
