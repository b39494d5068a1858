package common

const (
	RedisStreamMarketAnalysis = "warroom.market.analysis"

	RedisStreamGroup    = "warroom-group"
	RedisStreamConsumer = "warroom-consumer"
)
