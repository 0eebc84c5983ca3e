package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrderStatus 统一下单状态枚举（用于 API/DB/前端筛选）。
// 约定：
// - 1 processing: 下单进行中
// - 2 completed: 下单完成
// - 3 failed: 下单失败
//
// 对外有两套历史表示：整数码（1/2/3）和字符串标签（processing/completed/failed）。
// 内部统一用本类型，序列化固定输出整数码，反序列化两种都接受。
type OrderStatus int

const (
	StatusProcessing OrderStatus = 1
	StatusCompleted  OrderStatus = 2
	StatusFailed     OrderStatus = 3
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal 是否为终态（完成/失败）
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Label 字符串标签表示（另一套 API 变体使用）
func (s OrderStatus) Label() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s OrderStatus) String() string { return s.Label() }

// ParseStatus 解析状态，接受整数码或字符串标签
func ParseStatus(v string) (OrderStatus, error) {
	if n, err := strconv.Atoi(v); err == nil {
		s := OrderStatus(n)
		if !s.Valid() {
			return 0, fmt.Errorf("无效的订单状态码: %d", n)
		}
		return s, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "processing":
		return StatusProcessing, nil
	case "completed":
		return StatusCompleted, nil
	case "failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("无效的订单状态: %q", v)
	}
}

// MarshalJSON 固定输出整数码
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON 同时接受整数码和字符串标签两种外部表示
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		st := OrderStatus(n)
		if !st.Valid() {
			return fmt.Errorf("无效的订单状态码: %d", n)
		}
		*s = st
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("订单状态必须是整数码或字符串标签: %s", string(data))
	}
	st, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
