// Package errs 定义会阻断整次运行的错误类型。
// 这些错误在命令层转换为结构化 stderr 记录并以退出码 2 结束；
// 阈值超限不是错误，它是结论并驱动退出码 1。
package errs

import (
	"errors"
	"fmt"
)

// Kind 是错误分类，对应 stderr 记录中的 error_type 字段。
type Kind string

// 错误分类取值。
const (
	KindConfig Kind = "config"
	KindIO     Kind = "io"
	KindGit    Kind = "git"
	KindRemote Kind = "remote_fetch"
	KindRule   Kind = "rule"
)

// Error 是带分类与修复建议的运行级错误。
type Error struct {
	Kind       Kind
	Message    string
	Detail     string
	Suggestion string
	Err        error
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 返回底层错误。
func (e *Error) Unwrap() error {
	return e.Err
}

// Config 创建配置错误（解析失败、未知字段、版本不符、extends 成环等）。
func Config(message string, detail string, suggestion string) *Error {
	return &Error{Kind: KindConfig, Message: message, Detail: detail, Suggestion: suggestion}
}

// IO 创建文件读写错误，携带路径信息。
func IO(path string, err error) *Error {
	return &Error{
		Kind:    KindIO,
		Message: fmt.Sprintf("io error on %s", path),
		Detail:  path,
		Err:     err,
	}
}

// Git 创建 git 操作错误（仓库发现或引用解析失败）。
func Git(message string, err error) *Error {
	return &Error{Kind: KindGit, Message: message, Err: err}
}

// Remote 创建远程配置拉取错误。
func Remote(url string, err error) *Error {
	return &Error{
		Kind:    KindRemote,
		Message: fmt.Sprintf("fetch remote config %s", url),
		Detail:  url,
		Err:     err,
	}
}

// Rule 创建规则语义校验错误（阈值越界、非法负数限制等）。
func Rule(message string, detail string) *Error {
	return &Error{
		Kind:       KindRule,
		Message:    message,
		Detail:     detail,
		Suggestion: "check the rule definition in your config",
	}
}

// As 尝试把任意错误还原为 *Error。
func As(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}
