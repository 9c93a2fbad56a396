package report

import (
	"encoding/json"
	"io"

	"slocguard/internal/errs"
)

// WriteErrorRecord 把运行级错误以单行 JSON 记录写入 writer。
// 非 errs.Error 的错误归类为 io。
func WriteErrorRecord(writer io.Writer, err error) {
	record := errorRecord{
		ErrorType: string(errs.KindIO),
		Message:   err.Error(),
	}
	if typed, ok := errs.As(err); ok {
		record.ErrorType = string(typed.Kind)
		record.Message = typed.Message
		record.Detail = typed.Detail
		record.Suggestion = typed.Suggestion
		if typed.Err != nil && record.Detail == "" {
			record.Detail = typed.Err.Error()
		}
	}

	encoder := json.NewEncoder(writer)
	_ = encoder.Encode(record)
}
