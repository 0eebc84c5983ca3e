package handler

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/azhengyongqin/ordertracker/internal/middleware"
	"github.com/azhengyongqin/ordertracker/internal/model"
	"github.com/azhengyongqin/ordertracker/internal/repository"
	"github.com/azhengyongqin/ordertracker/internal/server/dto"
	"github.com/azhengyongqin/ordertracker/internal/service"
)

// OrderHandler 下单任务相关 API Handler
type OrderHandler struct {
	svc *service.OrderService
}

// NewOrderHandler 创建 OrderHandler
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// CreateOrder godoc
// @Summary 创建下单任务
// @Description 接收商品信息并创建下单任务；同一用户在同一店铺冷却窗口内已有任务时返回 success=false
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "商品信息"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	req.UserName = middleware.SanitizeString(req.UserName)
	req.ShopName = middleware.SanitizeString(req.ShopName)
	req.ProductSKU = middleware.SanitizeString(req.ProductSKU)

	if !middleware.ValidateUserName(req.UserName) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_name 格式无效，长度必须在1-100个字符之间"})
		return
	}
	if !middleware.ValidateShopName(req.ShopName) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "shop_name 格式无效，长度必须在1-200个字符之间"})
		return
	}
	if !middleware.ValidateProductURL(req.ProductURL) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "product_url 必须是合法的 http/https 链接"})
		return
	}
	if !middleware.ValidateProductSKU(req.ProductSKU) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "product_sku 格式无效，长度必须在1-100个字符之间"})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), service.CreateRequest{
		UserName:     req.UserName,
		ShopName:     req.ShopName,
		ProductURL:   req.ProductURL,
		ProductPrice: req.ProductPrice,
		ProductSKU:   req.ProductSKU,
	})
	if err != nil {
		// 存储层故障也走 success=false，不用 HTTP 错误码
		c.JSON(http.StatusOK, dto.OrderResponse{
			Success: false,
			Message: "创建任务失败: " + err.Error(),
		})
		return
	}

	if !result.Created {
		// 冷却窗口拒绝，返回阻挡任务的 UUID
		c.JSON(http.StatusOK, dto.OrderResponse{
			Success:  false,
			Message:  result.Message,
			TaskUUID: result.TaskUUID,
		})
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		Success:  true,
		Message:  result.Message,
		TaskID:   result.ID,
		TaskUUID: result.TaskUUID,
	})
}

// UpdateOrder godoc
// @Summary 更新订单信息
// @Description 根据 task_uuid 更新订单号、支付宝交易号、收货信息等；省略的字段保持不变
// @Tags Orders
// @Accept json
// @Produce json
// @Param task_uuid path string true "任务 UUID"
// @Param request body dto.UpdateOrderInfoRequest true "订单信息"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /orders/{task_uuid} [patch]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	taskUUID := c.Param("task_uuid")

	var req dto.UpdateOrderInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if req.ReceiverName != nil && utf8.RuneCountInString(*req.ReceiverName) > 100 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "receiver_name 最长100个字符"})
		return
	}
	if req.ReceiverAddress != nil && utf8.RuneCountInString(*req.ReceiverAddress) > 500 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "receiver_address 最长500个字符"})
		return
	}
	if req.ReceiverPhone != nil && utf8.RuneCountInString(*req.ReceiverPhone) > 20 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "receiver_phone 最长20个字符"})
		return
	}

	result, err := h.svc.UpdateInfo(c.Request.Context(), taskUUID, service.UpdateRequest{
		OrderID:         req.OrderID,
		AlipayTradeNo:   req.AlipayTradeNo,
		ReceiverName:    req.ReceiverName,
		ReceiverAddress: req.ReceiverAddress,
		ReceiverPhone:   req.ReceiverPhone,
		Status:          req.OrderStatus,
		ErrorMessage:    req.ErrorMessage,
	})
	if err != nil {
		c.JSON(http.StatusOK, dto.OrderResponse{
			Success: false,
			Message: "更新订单信息失败: " + err.Error(),
		})
		return
	}

	if !result.Found || result.Rejected {
		c.JSON(http.StatusOK, dto.OrderResponse{
			Success:  false,
			Message:  result.Message,
			TaskUUID: result.TaskUUID,
		})
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		Success:  true,
		Message:  result.Message,
		TaskID:   result.ID,
		TaskUUID: result.TaskUUID,
	})
}

// GetOrder godoc
// @Summary 获取任务详情
// @Description 根据 task_uuid 获取下单任务的完整信息
// @Tags Orders
// @Produce json
// @Param task_uuid path string true "任务 UUID"
// @Success 200 {object} dto.OrderTaskDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /orders/{task_uuid} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	taskUUID := c.Param("task_uuid")

	task, err := h.svc.GetTask(c.Request.Context(), taskUUID)
	if err != nil {
		c.JSON(http.StatusOK, dto.OrderTaskDetailResponse{
			Success: false,
			Message: "获取任务详情失败: " + err.Error(),
		})
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, dto.OrderTaskDetailResponse{
			Success: false,
			Message: "未找到任务UUID: " + taskUUID,
		})
		return
	}

	c.JSON(http.StatusOK, dto.OrderTaskDetailResponse{
		Success: true,
		Message: "获取任务详情成功",
		Task:    task,
	})
}

// ListOrders godoc
// @Summary 查询任务列表
// @Description 分页查询下单任务列表，支持用户/店铺/状态过滤
// @Tags Orders
// @Produce json
// @Param user_name query string false "用户名"
// @Param shop_name query string false "店铺名称"
// @Param status query string false "订单状态（整数码或标签）"
// @Param limit query int false "每页数量" default(50)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} dto.OrderTaskListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var status model.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := model.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		status = parsed
	}

	tasks, total, err := h.svc.ListTasks(c.Request.Context(), repository.ListOrdersFilter{
		UserName: c.Query("user_name"),
		ShopName: c.Query("shop_name"),
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		c.JSON(http.StatusOK, dto.OrderTaskListResponse{
			Success: false,
			Message: "查询任务列表失败: " + err.Error(),
			Tasks:   []repository.OrderTask{},
		})
		return
	}

	c.JSON(http.StatusOK, dto.OrderTaskListResponse{
		Success: true,
		Message: "查询任务列表成功",
		Tasks:   tasks,
		Total:   total,
	})
}

// GetStats godoc
// @Summary 下单任务统计
// @Description 按状态统计任务数量，user_name 为空时统计全部
// @Tags Orders
// @Produce json
// @Param user_name query string false "用户名"
// @Success 200 {object} dto.OrderTaskStatsResponse
// @Router /orders/stats [get]
func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Query("user_name"))
	if err != nil {
		c.JSON(http.StatusOK, dto.OrderTaskStatsResponse{
			Success: false,
			Message: "获取统计失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.OrderTaskStatsResponse{
		Success: true,
		Message: "获取统计成功",
		Stats:   stats,
	})
}

// GetCurrentOrder godoc
// @Summary 获取用户当前进行中的订单
// @Description 根据用户名查询状态为进行中的最新任务
// @Tags Orders
// @Produce json
// @Param user_name path string true "用户名"
// @Success 200 {object} dto.CurrentTaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{user_name}/orders/current [get]
func (h *OrderHandler) GetCurrentOrder(c *gin.Context) {
	userName := c.Param("user_name")

	task, err := h.svc.CurrentTask(c.Request.Context(), userName)
	if err != nil {
		c.JSON(http.StatusOK, dto.CurrentTaskResponse{
			Success: false,
			Message: "获取用户当前任务失败: " + err.Error(),
		})
		return
	}
	if task == nil {
		c.JSON(http.StatusOK, dto.CurrentTaskResponse{
			Success: false,
			Message: "用户 '" + userName + "' 当前没有进行中的任务",
		})
		return
	}

	c.JSON(http.StatusOK, dto.CurrentTaskResponse{
		Success: true,
		Message: "成功获取用户 '" + userName + "' 的当前进行中任务",
		Task:    task,
	})
}
