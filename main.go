// main.go 是 sloc-guard 的程序入口。
// 该文件仅负责注入版本号并执行 Cobra 根命令，
// 退出码约定：0 全部通过，1 存在超限，2 运行级错误。
package main

import (
	"os"

	"slocguard/cmd"
)

// version 默认值为 dev。
// 发布时可以通过 -ldflags "-X main.version=vX.Y.Z" 覆盖该值。
var version = "dev"

func main() {
	os.Exit(cmd.Execute(version))
}
