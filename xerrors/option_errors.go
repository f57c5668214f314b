package xerrors

var (
	// ErrInvalidInput 输入参数非法（非正的行权价、标的价格、剩余期限或越界的波动率）。
	ErrInvalidInput = New(ErrInvalidArg, 400002, "invalid input", "", nil)
	// ErrInvalidOptionType 无效的期权类型。
	ErrInvalidOptionType = New(ErrInvalidArg, 400004, "invalid option type", "supported types: call, put", nil)
	// ErrInvalidConfig 配置错误。
	ErrInvalidConfig = New(ErrInvalidArg, 400005, "invalid config", "", nil)
	// ErrNoArbitrage 目标权利金超出无套利区间。
	ErrNoArbitrage = New(ErrInvalidArg, 400020, "no-arbitrage bounds violated", "", nil)
	// ErrMissingVolume 加权中间价缺少成交量。
	ErrMissingVolume = New(ErrFailedPrecondition, 412001, "missing volume", "", nil)
	// ErrMissingOpenInterest 敞口计算缺少持仓量。
	ErrMissingOpenInterest = New(ErrFailedPrecondition, 412002, "missing open interest", "", nil)
	// ErrEmptySide 行权价簿中没有对应方向的报价。
	ErrEmptySide = New(ErrNotFound, 404001, "empty side", "", nil)
	// ErrEmptyChain 期权链中没有可用元素。
	ErrEmptyChain = New(ErrNotFound, 404002, "empty chain", "", nil)
	// ErrEmptySeries 时间序列为空。
	ErrEmptySeries = New(ErrNotFound, 404003, "empty series", "", nil)
	// ErrMathConvergence 隐含波动率求解未收敛。
	ErrMathConvergence = New(ErrInternal, 500002, "math convergence failed", "", nil)
)
