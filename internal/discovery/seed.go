package discovery

import "time"

func randSeed() int64 {
	return time.Now().UnixNano()
}
