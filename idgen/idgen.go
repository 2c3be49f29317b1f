// Package idgen 提供基于雪花算法的运行 ID 生成器.
package idgen

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	// ErrParseTime 解析纪元起始时间失败.
	ErrParseTime = errors.New("failed to parse start time")
	// ErrCreateNode 创建 Snowflake 节点失败.
	ErrCreateNode = errors.New("failed to create snowflake node")
)

const nsPerMs = int64(time.Millisecond)

// Generator ID 生成器接口.
type Generator interface {
	Generate() int64
	GenerateString() string
}

// Config 雪花算法参数. StartTime 格式为 2006-01-02，MachineID 取值 0-1023.
type Config struct {
	StartTime string
	MachineID int64
}

// SnowflakeGenerator 使用雪花算法实现 Generator，每毫秒可生成 4096 个 ID.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator 创建生成器. 设置 StartTime 会修改 snowflake 包级纪元.
func NewSnowflakeGenerator(cfg Config) (*SnowflakeGenerator, error) {
	if cfg.StartTime != "" {
		st, err := time.Parse("2006-01-02", cfg.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseTime, err)
		}
		snowflake.Epoch = st.UnixNano() / nsPerMs
	}

	node, err := snowflake.NewNode(cfg.MachineID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateNode, err)
	}

	slog.Info("snowflake generator initialized", "machine_id", cfg.MachineID, "epoch", snowflake.Epoch)
	return &SnowflakeGenerator{node: node}, nil
}

// Generate 生成一个新的 ID.
func (g *SnowflakeGenerator) Generate() int64 {
	return g.node.Generate().Int64()
}

// GenerateString 生成十进制字符串形式的 ID，用于 JSON 响应.
func (g *SnowflakeGenerator) GenerateString() string {
	return g.node.Generate().String()
}
