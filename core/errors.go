package core

import "fmt"

// Error 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）、模块名（Module）与可选的字段名（Field）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 形状不匹配：SHAPE_VIOLATION
//   - 配置字段缺失：MISSING_FIELD
//   - 字段表示与契约不符：TYPE_VIOLATION
//   - 序列 offsets 对不齐：SEQUENCE_MISALIGNED
//   - 构建期配置错误：MISCONFIGURED
type Error struct {
	Module  string // 模块名称（如 "transform", "pipeline", "store"）
	Code    string // 错误代码（如 "SHAPE_VIOLATION"）
	Field   string // 相关字段名（可为空）
	Message string // 错误消息
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: field %q: %s", e.Module, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Module, e.Code, e.Message)
}

// NewError 创建新的领域错误。
func NewError(module, code, field, message string) *Error {
	return &Error{Module: module, Code: code, Field: field, Message: message}
}

// Errorf 创建带格式化消息的领域错误。
func Errorf(module, code, field, format string, args ...any) *Error {
	return NewError(module, code, field, fmt.Sprintf(format, args...))
}

// GetError 获取 *Error，如果不是则返回 nil。
func GetError(err error) *Error {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*Error); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeShapeViolation     = "SHAPE_VIOLATION"     // 形状/秩与契约不符
	ErrorCodeMissingField       = "MISSING_FIELD"       // 配置要求的字段缺失
	ErrorCodeTypeViolation      = "TYPE_VIOLATION"      // 字段表示不被支持
	ErrorCodeSequenceMisaligned = "SEQUENCE_MISALIGNED" // 序列 offsets 偏离固定步长
	ErrorCodeMisconfigured      = "MISCONFIGURED"       // 构建期配置错误
	ErrorCodeNotFound           = "NOT_FOUND"           // 资源不存在
)

// 模块名称常量
const (
	ModuleTransform     = "transform"     // 字段变换模块
	ModulePipeline      = "pipeline"      // 流水线模块
	ModulePreprocessing = "preprocessing" // 参考协作实现模块
	ModuleStore         = "store"         // 存储模块
	ModuleLoader        = "loader"        // 记录加载模块
)

// IsShapeViolation 检查错误是否为 SHAPE_VIOLATION。
func IsShapeViolation(err error) bool { return hasCode(err, ErrorCodeShapeViolation) }

// IsMissingField 检查错误是否为 MISSING_FIELD。
func IsMissingField(err error) bool { return hasCode(err, ErrorCodeMissingField) }

// IsTypeViolation 检查错误是否为 TYPE_VIOLATION。
func IsTypeViolation(err error) bool { return hasCode(err, ErrorCodeTypeViolation) }

// IsSequenceMisaligned 检查错误是否为 SEQUENCE_MISALIGNED。
func IsSequenceMisaligned(err error) bool { return hasCode(err, ErrorCodeSequenceMisaligned) }

// IsMisconfigured 检查错误是否为 MISCONFIGURED。
func IsMisconfigured(err error) bool { return hasCode(err, ErrorCodeMisconfigured) }

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

func hasCode(err error, code string) bool {
	if domainErr := GetError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// ErrStoreNotFound 是存储层“键不存在”的哨兵错误。
var ErrStoreNotFound = NewError(ModuleStore, ErrorCodeNotFound, "", "key not found")
