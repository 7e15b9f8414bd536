package slack

var (
	BuildBlocks = buildBlocks
	Truncate    = truncate
)
