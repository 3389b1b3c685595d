package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateOrderID returns an internal order id, unique enough for the
// transactions.order_id unique index to hold in practice.
func GenerateOrderID(userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("WUP-%06d%03d%d", nanoPart, randPart, userID)
}

// GenerateShortID returns a small random number for instance tags and
// other non-persistent identifiers.
func GenerateShortID() int {
	mu.Lock()
	defer mu.Unlock()
	return seededRand.Intn(100000)
}
