package repository

import (
	"time"

	"github.com/azhengyongqin/ordertracker/internal/model"
)

// OrderTaskModel GORM 模型 - 对应 order_tasks 表
type OrderTaskModel struct {
	ID              int64      `gorm:"primaryKey;autoIncrement;column:id"`
	TaskUUID        string     `gorm:"column:task_uuid;uniqueIndex;type:varchar(36);not null"`
	UserName        string     `gorm:"column:user_name;type:varchar(100);not null;index:idx_order_user_shop_created,priority:1;index:idx_order_user_status,priority:1"`
	ShopName        string     `gorm:"column:shop_name;type:varchar(200);not null;index:idx_order_user_shop_created,priority:2"`
	ProductURL      string     `gorm:"column:product_url;type:varchar(1000);not null"`
	ProductPrice    float64    `gorm:"column:product_price;type:decimal(10,2);not null"`
	ProductSKU      string     `gorm:"column:product_sku;type:varchar(100);not null"`
	Status          int        `gorm:"column:order_status;default:1;index:idx_order_user_status,priority:2"`
	ErrorMessage    *string    `gorm:"column:error_message;type:text"`
	OrderID         *string    `gorm:"column:order_id;type:varchar(100)"`
	AlipayTradeNo   *string    `gorm:"column:alipay_trade_no;type:varchar(100)"`
	ReceiverName    *string    `gorm:"column:receiver_name;type:varchar(100)"`
	ReceiverAddress *string    `gorm:"column:receiver_address;type:varchar(500)"`
	ReceiverPhone   *string    `gorm:"column:receiver_phone;type:varchar(20)"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_order_user_shop_created,priority:3,sort:desc"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
}

// TableName 指定表名
func (OrderTaskModel) TableName() string { return "order_tasks" }

// ToOrderTask 转换为 OrderTask 实体
func (m *OrderTaskModel) ToOrderTask() OrderTask {
	t := OrderTask{
		ID:           m.ID,
		TaskUUID:     m.TaskUUID,
		UserName:     m.UserName,
		ShopName:     m.ShopName,
		ProductURL:   m.ProductURL,
		ProductPrice: m.ProductPrice,
		ProductSKU:   m.ProductSKU,
		Status:       model.OrderStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
	}
	if m.ErrorMessage != nil {
		t.ErrorMessage = *m.ErrorMessage
	}
	if m.OrderID != nil {
		t.OrderID = *m.OrderID
	}
	if m.AlipayTradeNo != nil {
		t.AlipayTradeNo = *m.AlipayTradeNo
	}
	if m.ReceiverName != nil {
		t.ReceiverName = *m.ReceiverName
	}
	if m.ReceiverAddress != nil {
		t.ReceiverAddress = *m.ReceiverAddress
	}
	if m.ReceiverPhone != nil {
		t.ReceiverPhone = *m.ReceiverPhone
	}
	return t
}

// OrderTaskToModel 从 OrderTask 实体创建模型
func OrderTaskToModel(t OrderTask) OrderTaskModel {
	m := OrderTaskModel{
		ID:           t.ID,
		TaskUUID:     t.TaskUUID,
		UserName:     t.UserName,
		ShopName:     t.ShopName,
		ProductURL:   t.ProductURL,
		ProductPrice: t.ProductPrice,
		ProductSKU:   t.ProductSKU,
		Status:       int(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
	if t.ErrorMessage != "" {
		m.ErrorMessage = &t.ErrorMessage
	}
	if t.OrderID != "" {
		m.OrderID = &t.OrderID
	}
	if t.AlipayTradeNo != "" {
		m.AlipayTradeNo = &t.AlipayTradeNo
	}
	if t.ReceiverName != "" {
		m.ReceiverName = &t.ReceiverName
	}
	if t.ReceiverAddress != "" {
		m.ReceiverAddress = &t.ReceiverAddress
	}
	if t.ReceiverPhone != "" {
		m.ReceiverPhone = &t.ReceiverPhone
	}
	return m
}
