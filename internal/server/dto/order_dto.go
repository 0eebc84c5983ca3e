package dto

import (
	"github.com/azhengyongqin/ordertracker/internal/model"
	"github.com/azhengyongqin/ordertracker/internal/repository"
)

// CreateOrderRequest 创建下单任务请求
type CreateOrderRequest struct {
	UserName     string  `json:"user_name" binding:"required" example:"张三"`
	ShopName     string  `json:"shop_name" binding:"required" example:"测试店铺"`
	ProductURL   string  `json:"product_url" binding:"required" example:"https://example.com/product/123"`
	ProductPrice float64 `json:"product_price" binding:"required,gt=0" example:"99.99"`
	ProductSKU   string  `json:"product_sku" binding:"required" example:"SKU123456"`
}

// OrderResponse 创建/更新下单任务的通用响应
type OrderResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message,omitempty" example:"商品下单任务创建成功"`
	TaskID   int64  `json:"task_id,omitempty" example:"1"`
	TaskUUID string `json:"task_uuid,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// UpdateOrderInfoRequest 更新订单信息请求；省略的字段保持原值不变
type UpdateOrderInfoRequest struct {
	OrderID         *string            `json:"order_id" example:"2856526176708641363"`
	AlipayTradeNo   *string            `json:"alipay_trade_no" example:"2025073122001895161402512358"`
	ReceiverName    *string            `json:"receiver_name" example:"王毅恒"`
	ReceiverAddress *string            `json:"receiver_address" example:"北京市 通州区 旭辉御锦4号楼3单元502室"`
	ReceiverPhone   *string            `json:"receiver_phone" example:"17858286773"`
	OrderStatus     *model.OrderStatus `json:"order_status" example:"2"`
	ErrorMessage    *string            `json:"error_message"`
}

// CurrentTaskResponse 用户当前任务响应
type CurrentTaskResponse struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message,omitempty"`
	Task    *repository.OrderTask `json:"task,omitempty"`
}

// OrderTaskDetailResponse 任务详情响应
type OrderTaskDetailResponse struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message,omitempty"`
	Task    *repository.OrderTask `json:"task,omitempty"`
}

// OrderTaskListResponse 任务列表响应
type OrderTaskListResponse struct {
	Success bool                   `json:"success" example:"true"`
	Message string                 `json:"message,omitempty"`
	Tasks   []repository.OrderTask `json:"tasks"`
	Total   int64                  `json:"total" example:"10"`
}

// OrderTaskStatsResponse 任务统计响应
type OrderTaskStatsResponse struct {
	Success bool                       `json:"success" example:"true"`
	Message string                     `json:"message,omitempty"`
	Stats   *repository.OrderTaskStats `json:"stats,omitempty"`
}
