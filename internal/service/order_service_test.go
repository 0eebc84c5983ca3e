package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azhengyongqin/ordertracker/internal/cache"
	"github.com/azhengyongqin/ordertracker/internal/logger"
	"github.com/azhengyongqin/ordertracker/internal/model"
	"github.com/azhengyongqin/ordertracker/internal/repository"
)

func TestMain(m *testing.M) {
	logger.L = zerolog.Nop()
	os.Exit(m.Run())
}

// fakeRepo 内存版 OrderTaskRepository，允许预置 created_at 做冷却窗口测试
type fakeRepo struct {
	tasks  map[string]*repository.OrderTask
	nextID int64

	insertErr error
	findErr   error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: make(map[string]*repository.OrderTask)}
}

// seed 直接写入一条记录，绕过 Insert 的时间戳分配
func (f *fakeRepo) seed(t repository.OrderTask) *repository.OrderTask {
	f.nextID++
	t.ID = f.nextID
	f.tasks[t.TaskUUID] = &t
	return &t
}

func (f *fakeRepo) Insert(ctx context.Context, t repository.OrderTask) (repository.OrderTask, error) {
	if f.insertErr != nil {
		return repository.OrderTask{}, f.insertErr
	}
	if _, ok := f.tasks[t.TaskUUID]; ok {
		return repository.OrderTask{}, repository.ErrConflict
	}
	f.nextID++
	t.ID = f.nextID
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	f.tasks[t.TaskUUID] = &t
	return t, nil
}

func (f *fakeRepo) FindByTaskUUID(ctx context.Context, taskUUID string) (*repository.OrderTask, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tasks[taskUUID]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (f *fakeRepo) FindRecentByUserShop(ctx context.Context, userName, shopName string, since time.Time) (*repository.OrderTask, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var newest *repository.OrderTask
	for _, t := range f.tasks {
		if t.UserName != userName || t.ShopName != shopName {
			continue
		}
		if !t.CreatedAt.After(since) {
			continue
		}
		if newest == nil || t.CreatedAt.After(newest.CreatedAt) {
			newest = t
		}
	}
	if newest == nil {
		return nil, nil
	}
	c := *newest
	return &c, nil
}

func (f *fakeRepo) FindCurrentByUser(ctx context.Context, userName string) (*repository.OrderTask, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var newest *repository.OrderTask
	for _, t := range f.tasks {
		if t.UserName != userName || t.Status != model.StatusProcessing {
			continue
		}
		if newest == nil || t.CreatedAt.After(newest.CreatedAt) {
			newest = t
		}
	}
	if newest == nil {
		return nil, nil
	}
	c := *newest
	return &c, nil
}

func (f *fakeRepo) Update(ctx context.Context, t repository.OrderTask) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.tasks[t.TaskUUID]
	if !ok {
		return fmt.Errorf("任务不存在: %s", t.TaskUUID)
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	f.tasks[t.TaskUUID] = &t
	return nil
}

func (f *fakeRepo) List(ctx context.Context, fl repository.ListOrdersFilter) ([]repository.OrderTask, error) {
	var out []repository.OrderTask
	for _, t := range f.tasks {
		if fl.UserName != "" && t.UserName != fl.UserName {
			continue
		}
		if fl.ShopName != "" && t.ShopName != fl.ShopName {
			continue
		}
		if fl.Status != 0 && t.Status != fl.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, fl repository.ListOrdersFilter) (int64, error) {
	items, err := f.List(ctx, fl)
	return int64(len(items)), err
}

func (f *fakeRepo) Stats(ctx context.Context, userName string) (*repository.OrderTaskStats, error) {
	stats := &repository.OrderTaskStats{}
	for _, t := range f.tasks {
		if userName != "" && t.UserName != userName {
			continue
		}
		stats.TotalCount++
		switch t.Status {
		case model.StatusProcessing:
			stats.ProcessingCount++
		case model.StatusCompleted:
			stats.CompletedCount++
		case model.StatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(repository.OrderTaskRepository) error) error {
	return fn(f)
}

func newTestService(repo repository.OrderTaskRepository, opts Options) *OrderService {
	return NewOrderService(repo, nil, opts)
}

func createReq(user, shop string) CreateRequest {
	return CreateRequest{
		UserName:     user,
		ShopName:     shop,
		ProductURL:   "https://example.com/product/123",
		ProductPrice: 99.99,
		ProductSKU:   "SKU123456",
	}
}

func TestCreateSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.NotZero(t, result.ID)
	assert.NotEmpty(t, result.TaskUUID)
	assert.Equal(t, "商品下单任务创建成功", result.Message)
	assert.Nil(t, result.Blocking)

	// 初始状态为进行中
	stored, err := repo.FindByTaskUUID(ctx, result.TaskUUID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.StatusProcessing, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestCreateRejectedWithinCooldown(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	// 10 小时前已有任务
	blocking := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC().Add(-10 * time.Hour),
	})

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, blocking.TaskUUID, result.TaskUUID)
	require.NotNil(t, result.Blocking)
	assert.Equal(t, blocking.TaskUUID, result.Blocking.TaskUUID)

	// 剩余约 14 小时（向下取整后为 13小时59分 或 14小时0分）
	totalMinutes := result.Blocking.RemainingHours*60 + result.Blocking.RemainingMinutes
	assert.GreaterOrEqual(t, totalMinutes, 13*60+59)
	assert.LessOrEqual(t, totalMinutes, 14*60)

	assert.Contains(t, result.Message, "张三")
	assert.Contains(t, result.Message, "测试店铺")
	assert.Contains(t, result.Message, "24小时内已有下单任务")
	assert.Contains(t, result.Message, "还需等待")
}

func TestCreateCooldownScopedToUserShopPair(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "店铺A",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC().Add(-1 * time.Hour),
	})

	// 同一用户另一家店铺不受影响
	result, err := svc.Create(ctx, createReq("张三", "店铺B"))
	require.NoError(t, err)
	assert.True(t, result.Created)

	// 另一用户同一家店铺不受影响
	result, err = svc.Create(ctx, createReq("李四", "店铺A"))
	require.NoError(t, err)
	assert.True(t, result.Created)

	// 同一 (用户, 店铺) 被拒绝
	result, err = svc.Create(ctx, createReq("张三", "店铺A"))
	require.NoError(t, err)
	assert.False(t, result.Created)
}

func TestCreateAllowedAfterWindowExpiry(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	// 25 小时前的任务不再阻挡
	repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusCompleted,
		CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
	})

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestCreateCooldownIgnoresTaskStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	// 已失败的任务同样占用冷却窗口
	repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusFailed,
		CreatedAt: time.Now().UTC().Add(-1 * time.Hour),
	})

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)
	assert.False(t, result.Created)
}

func TestCreateCustomCooldownWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{CooldownWindow: 2 * time.Hour})
	ctx := context.Background()

	// 3 小时前的任务在 2 小时窗口外
	repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC().Add(-3 * time.Hour),
	})

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestCreateStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("数据库不可用")
	svc := newTestService(repo, Options{})

	_, err := svc.Create(context.Background(), createReq("张三", "测试店铺"))
	assert.Error(t, err)
}

// fakeLocker 内存版互斥锁
type fakeLocker struct {
	held map[string]string
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) error {
	if l.held == nil {
		l.held = make(map[string]string)
	}
	if _, ok := l.held[key]; ok {
		return cache.ErrLockHeld
	}
	l.held[key] = token
	return nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, token string) error {
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

func TestCreateWithLock(t *testing.T) {
	repo := newFakeRepo()
	locker := &fakeLocker{}
	svc := NewOrderService(repo, locker, Options{CreateLockEnabled: true})
	ctx := context.Background()

	result, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)
	assert.True(t, result.Created)

	// 正常路径释放锁
	assert.Empty(t, locker.held)
}

func TestCreateLockHeld(t *testing.T) {
	repo := newFakeRepo()
	locker := &fakeLocker{held: map[string]string{
		"ordertracker:create:张三:测试店铺": "other-token",
	}}
	svc := NewOrderService(repo, locker, Options{CreateLockEnabled: true})

	_, err := svc.Create(context.Background(), createReq("张三", "测试店铺"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "正在处理中")
}

func strPtr(s string) *string { return &s }

func statusPtr(s model.OrderStatus) *model.OrderStatus { return &s }

func TestUpdateInfoNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})

	result, err := svc.UpdateInfo(context.Background(), "550e8400-e29b-41d4-a716-446655440099", UpdateRequest{
		OrderID: strPtr("123"),
	})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Contains(t, result.Message, "未找到任务UUID")
	assert.Contains(t, result.Message, "550e8400-e29b-41d4-a716-446655440099")
}

func TestUpdateInfoPartialMerge(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		OrderID:   "old-order-id",
		CreatedAt: time.Now().UTC(),
	})

	// 只更新收货人，其余字段保持不变
	result, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		ReceiverName: strPtr("王毅恒"),
	})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Len(t, result.UpdatedFields, 1)
	assert.Contains(t, result.Message, "共更新 1 个字段")

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, "王毅恒", stored.ReceiverName)
	assert.Equal(t, "old-order-id", stored.OrderID)
	// 未满足推断条件，状态不变
	assert.Equal(t, model.StatusProcessing, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestUpdateInfoAutoCompleteInference(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	})

	// 订单号 + 支付宝交易号 + 收货人同时出现，自动置为完成
	result, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		OrderID:       strPtr("2856526176708641363"),
		AlipayTradeNo: strPtr("2025073122001895161402512358"),
		ReceiverName:  strPtr("王毅恒"),
	})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Len(t, result.UpdatedFields, 4)
	assert.Contains(t, result.UpdatedFields, "订单状态: 2 (完成-自动设置)")

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *stored.CompletedAt, 5*time.Second)
}

func TestUpdateInfoNoInferenceWhenIncomplete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	})

	// 缺少收货人，不触发推断
	_, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		OrderID:       strPtr("2856526176708641363"),
		AlipayTradeNo: strPtr("2025073122001895161402512358"),
	})
	require.NoError(t, err)

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, stored.Status)
	assert.Nil(t, stored.CompletedAt)
}

func TestUpdateInfoExplicitStatusWins(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	})

	// 三个字段齐全但显式给了失败状态，不做自动完成
	_, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		OrderID:       strPtr("2856526176708641363"),
		AlipayTradeNo: strPtr("2025073122001895161402512358"),
		ReceiverName:  strPtr("王毅恒"),
		Status:        statusPtr(model.StatusFailed),
		ErrorMessage:  strPtr("支付超时"),
	})
	require.NoError(t, err)

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Equal(t, "支付超时", stored.ErrorMessage)
}

func TestUpdateInfoExplicitCompletedSetsCompletedAt(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	old := time.Now().UTC().Add(-1 * time.Hour)
	seeded := repo.seed(repository.OrderTask{
		TaskUUID:    "550e8400-e29b-41d4-a716-446655440001",
		UserName:    "张三",
		ShopName:    "测试店铺",
		Status:      model.StatusCompleted,
		CompletedAt: &old,
		CreatedAt:   time.Now().UTC(),
	})

	// 再次显式置为完成，完成时间无条件覆盖
	_, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		Status: statusPtr(model.StatusCompleted),
	})
	require.NoError(t, err)

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.After(old))
}

func TestUpdateInfoEmptyRequest(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	})

	// 全空请求也是成功，只是 0 个字段被更新
	result, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Empty(t, result.UpdatedFields)
	assert.Contains(t, result.Message, "共更新 0 个字段")
}

func TestUpdateInfoStrictTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{StrictTerminal: true})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusCompleted,
		OrderID:   "keep-me",
		CreatedAt: time.Now().UTC(),
	})

	result, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		OrderID: strPtr("should-not-apply"),
	})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Rejected)
	assert.Contains(t, result.Message, "任务已结束")

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", stored.OrderID)
}

func TestUpdateInfoTerminalMutableByDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	seeded := repo.seed(repository.OrderTask{
		TaskUUID:  "550e8400-e29b-41d4-a716-446655440001",
		UserName:  "张三",
		ShopName:  "测试店铺",
		Status:    model.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	})

	// 默认配置下终态任务仍可修改
	result, err := svc.UpdateInfo(ctx, seeded.TaskUUID, UpdateRequest{
		OrderID: strPtr("new-order-id"),
	})
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Rejected)

	stored, err := repo.FindByTaskUUID(ctx, seeded.TaskUUID)
	require.NoError(t, err)
	assert.Equal(t, "new-order-id", stored.OrderID)
}

func TestCurrentTaskLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	// 没有任务
	task, err := svc.CurrentTask(ctx, "张三")
	require.NoError(t, err)
	assert.Nil(t, task)

	// 创建后出现
	created, err := svc.Create(ctx, createReq("张三", "测试店铺"))
	require.NoError(t, err)

	task, err = svc.CurrentTask(ctx, "张三")
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, created.TaskUUID, task.TaskUUID)

	// 完成后消失
	_, err = svc.UpdateInfo(ctx, created.TaskUUID, UpdateRequest{
		Status: statusPtr(model.StatusCompleted),
	})
	require.NoError(t, err)

	task, err = svc.CurrentTask(ctx, "张三")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestListTasksAndStats(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, Options{})
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("张三", "店铺A"))
	require.NoError(t, err)
	created, err := svc.Create(ctx, createReq("张三", "店铺B"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createReq("李四", "店铺A"))
	require.NoError(t, err)

	_, err = svc.UpdateInfo(ctx, created.TaskUUID, UpdateRequest{
		Status: statusPtr(model.StatusCompleted),
	})
	require.NoError(t, err)

	tasks, total, err := svc.ListTasks(ctx, repository.ListOrdersFilter{UserName: "张三"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, int64(2), total)

	stats, err := svc.Stats(ctx, "张三")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ProcessingCount)
	assert.Equal(t, int64(1), stats.CompletedCount)
	assert.Equal(t, int64(2), stats.TotalCount)
}
