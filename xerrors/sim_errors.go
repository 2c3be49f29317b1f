package xerrors

// 模拟引擎相关的哨兵错误。业务码 4100xx 为前置条件错误，4200xx 为聚合阶段错误。
var (
	// ErrZeroHorizon 模拟步数为零。
	ErrZeroHorizon = New(ErrInvalidArg, 410001, "zero horizon", "horizon must be at least 1", nil)
	// ErrZeroPaths 路径数量为零。
	ErrZeroPaths = New(ErrInvalidArg, 410002, "zero paths", "number of paths must be at least 1", nil)
	// ErrInvalidStep 时间步长非正。
	ErrInvalidStep = New(ErrInvalidArg, 410003, "invalid time step", "dt must be positive", nil)
	// ErrInvalidPrice 初始价格非正。
	ErrInvalidPrice = New(ErrInvalidArg, 410004, "invalid initial price", "initial price must be positive", nil)
	// ErrEmptyPortfolio 组合中没有任何标的。
	ErrEmptyPortfolio = New(ErrInvalidArg, 410005, "empty portfolio", "portfolio must contain at least one instrument", nil)
	// ErrWeightSum 组合权重之和不为 1。
	ErrWeightSum = New(ErrInvalidArg, 410006, "weights must sum to 1.0", "tolerance is 0.001", nil)
	// ErrInvalidWeight 单个权重越界。
	ErrInvalidWeight = New(ErrInvalidArg, 410007, "invalid weight", "weight must be in (0, 1]", nil)
	// ErrDuplicateSymbol 标的重复。
	ErrDuplicateSymbol = New(ErrAlreadyExists, 410008, "duplicate symbol", "symbol already exists in portfolio", nil)
	// ErrSymbolNotFound 标的不存在。
	ErrSymbolNotFound = New(ErrNotFound, 410009, "symbol not found", "symbol is not part of the portfolio", nil)
	// ErrStopLossAbovePrice 止损价不低于初始价。
	ErrStopLossAbovePrice = New(ErrInvalidArg, 410010, "invalid stop loss", "stop loss must be below initial price", nil)
	// ErrTargetBelowPrice 目标价不高于初始价。
	ErrTargetBelowPrice = New(ErrInvalidArg, 410011, "invalid target", "target must be above initial price", nil)
	// ErrInvalidCapital 组合资金非正。
	ErrInvalidCapital = New(ErrInvalidArg, 410012, "invalid capital", "total capital must be positive", nil)
	// ErrUnknownModel 未知模型。
	ErrUnknownModel = New(ErrInvalidArg, 410013, "unknown model", "supported models: GBM, Bootstrap, JumpDiffusion, GARCH", nil)
	// ErrMissingModelParams 缺少模型参数。
	ErrMissingModelParams = New(ErrInvalidArg, 410014, "missing model parameters", "model specific parameters are required", nil)
	// ErrInvalidModelParams 模型参数越界。
	ErrInvalidModelParams = New(ErrInvalidArg, 410015, "invalid model parameters", "check model parameter ranges", nil)
	// ErrInsufficientData 历史数据不足以估计参数。
	ErrInsufficientData = New(ErrInvalidArg, 410016, "insufficient data", "need at least 2 log returns", nil)
	// ErrUnsupportedVersion 配置版本不受支持。
	ErrUnsupportedVersion = New(ErrInvalidArg, 410017, "unsupported config version", "supported versions: 1, 2", nil)
	// ErrLimitPaths 超出服务端允许的路径或步数上限。
	ErrLimitPaths = New(ErrLimitExceeded, 410018, "simulation too large", "paths or horizon exceed the configured limit", nil)

	// ErrEmptyEnsemble 路径集合为空。
	ErrEmptyEnsemble = New(ErrFailedPrecondition, 420001, "empty ensemble", "no paths to analyze", nil)
	// ErrEmptyReturns 组合收益集合为空。
	ErrEmptyReturns = New(ErrFailedPrecondition, 420002, "empty returns", "no portfolio returns to analyze", nil)
	// ErrShapeMismatch 各标的路径集合形状不一致。
	ErrShapeMismatch = New(ErrInternal, 420003, "ensemble shape mismatch", "instrument ensembles differ in path count or length", nil)
)
