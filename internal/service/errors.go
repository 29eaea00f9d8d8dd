package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// 领域错误分级：handler 层据此映射 HTTP 状态码（422/403/401/404）
var (
	// ErrNotFound 引用的实体不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrUnauthorized 角色/归属校验未通过
	ErrUnauthorized = errors.New("无权执行该操作")
	// ErrUnauthenticated 未携带有效身份
	ErrUnauthenticated = errors.New("未认证")
)

// ValidationError 输入校验失败，携带 字段->消息 明细。
// 所有校验必须在任何写入之前完成（fail fast，不留半写状态）
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

// NewValidationError 单字段校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidationError 判断并提取 ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// mapNotFound 把 gorm 的未命中翻译成领域层 ErrNotFound
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
