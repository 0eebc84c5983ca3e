package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const (
	// MaxBodySize 最大请求体大小（1MB）
	MaxBodySize = 1 * 1024 * 1024

	// MaxUserNameLen 用户名最大长度（字符数，用户名可含中文）
	MaxUserNameLen = 100

	// MaxShopNameLen 店铺名最大长度
	MaxShopNameLen = 200

	// MaxProductSKULen 商品 SKU 最大长度
	MaxProductSKULen = 100
)

// TaskUUIDRegex task_uuid 正则（标准 UUID 格式）
var TaskUUIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// BodySizeLimit 请求体大小限制中间件
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "请求体过大，最大允许 1MB",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ValidateUserName 验证用户名（1-100 个字符）
func ValidateUserName(userName string) bool {
	n := utf8.RuneCountInString(userName)
	return n >= 1 && n <= MaxUserNameLen
}

// ValidateShopName 验证店铺名（1-200 个字符）
func ValidateShopName(shopName string) bool {
	n := utf8.RuneCountInString(shopName)
	return n >= 1 && n <= MaxShopNameLen
}

// ValidateProductSKU 验证商品 SKU（1-100 个字符）
func ValidateProductSKU(sku string) bool {
	n := utf8.RuneCountInString(sku)
	return n >= 1 && n <= MaxProductSKULen
}

// ValidateProductURL 验证商品链接（必须是带 host 的 http/https URL）
func ValidateProductURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ValidateTaskUUID 验证 task_uuid 格式
func ValidateTaskUUID(taskUUID string) bool {
	return TaskUUIDRegex.MatchString(taskUUID)
}

// SanitizeString 清理字符串（去除前后空格和控制字符）
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)

	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateUserNameParam Gin 中间件：验证路径参数中的 user_name
func ValidateUserNameParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		userName := c.Param("user_name")
		if userName == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "user_name 参数缺失",
			})
			c.Abort()
			return
		}

		if !ValidateUserName(userName) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "user_name 格式无效，长度必须在1-100个字符之间",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ValidateTaskUUIDParam Gin 中间件：验证路径参数中的 task_uuid
func ValidateTaskUUIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskUUID := c.Param("task_uuid")
		if taskUUID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "task_uuid 参数缺失",
			})
			c.Abort()
			return
		}

		if !ValidateTaskUUID(taskUUID) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "task_uuid 格式无效，必须是标准 UUID",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CORSMiddleware CORS 中间件（内部系统可选）
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
