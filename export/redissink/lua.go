package redissink

import "github.com/go-redis/redis/v8"

var (
	replaceRowsScript = redis.NewScript(`
		local rowsKey = KEYS[1]
		local scenariosKey = KEYS[2]

		local vScenario = ARGV[1]

		redis.call("DEL", rowsKey)

		for i = 2, #ARGV, 2 do
			redis.call("HSET", rowsKey, ARGV[i], ARGV[i + 1])
		end

		redis.call("SADD", scenariosKey, vScenario)

		return 0
	`)
)
