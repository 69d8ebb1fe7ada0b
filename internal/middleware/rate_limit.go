package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/common/httpx"
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// allowByRedisRateLimit 基于 Redis 的固定窗口限流，多实例共享计数。
// rps 或 burst 不合法时视为关闭，直接放行。
func allowByRedisRateLimit(rdb *redis.Client, group, rpsKey, burstKey, ip string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	window := time.Now().Unix()
	key := service.RedisKey(group, rpsKey, burstKey, ip, fmt.Sprintf("%d", window))

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, 2*time.Second).Err(); err != nil {
			return false, err
		}
	}
	// 每秒允许 rps 个请求，窗口首秒额外容忍 burst
	return count <= int64(rps)+int64(burst), nil
}

// allowByRedisInterval 基于 Redis 的最小间隔限制，同一 IP 两次请求须间隔 interval。
func allowByRedisInterval(rdb *redis.Client, group, ip string, interval time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := service.RedisKey(group, "interval", ip)
	ok, err := rdb.SetNX(ctx, key, 1, interval).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// RateLimitMiddleware 创建一个动态限流中间件。
// Redis 可用时走共享计数，否则退化为进程内令牌桶。
func RateLimitMiddleware(appService *service.AppService, group, rpsKey, burstKey string) gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		// 检查总开关
		if !appService.GetBool(consts.ConfigRateLimitEnabled) {
			c.Next()
			return
		}

		currentRPS := appService.GetFloat64(rpsKey)
		currentBurst := appService.GetInt(burstKey)
		ip := c.ClientIP()

		if rdb := service.GetRedisClient(); rdb != nil {
			ok, err := allowByRedisRateLimit(rdb, group, rpsKey, burstKey, ip, currentRPS, currentBurst)
			if err == nil {
				if !ok {
					httpx.Fail(c, http.StatusTooManyRequests, common.ErrorCodeValidation, "请求过于频繁，请稍后再试")
					c.Abort()
					return
				}
				c.Next()
				return
			}
			// Redis 故障降级为本地限流
			log.Printf("⚠️ Redis rate limit error, falling back to local: %v\n", err)
		}

		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(currentRPS), currentBurst)
		})

		l := limiter.getLimiter(ip)

		// 动态更新 limit 和 burst (如果配置发生变更)
		if l.Limit() != rate.Limit(currentRPS) {
			l.SetLimit(rate.Limit(currentRPS))
		}
		if l.Burst() != currentBurst {
			l.SetBurst(currentBurst)
		}

		if !l.Allow() {
			httpx.Fail(c, http.StatusTooManyRequests, common.ErrorCodeValidation, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
