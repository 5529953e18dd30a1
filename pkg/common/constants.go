package common

const (
	RedisStreamScreenerRun = "screener.run"

	RedisStreamGroup    = "screener-group"
	RedisStreamConsumer = "screener-consumer"
)
