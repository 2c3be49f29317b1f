// Command montecarlo 运行蒙特卡洛价格路径模拟: 本地执行配置文件、估计模型参数或以 HTTP 服务方式提供模拟接口.
package main

import (
	"context"
	"os"
)

const serviceName = "montecarlo"

// version 由构建时 -ldflags "-X main.version=..." 注入.
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
