package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmarks/internal/auth"
	"github.com/MrSnakeDoc/smartmarks/internal/logger"
	"github.com/MrSnakeDoc/smartmarks/internal/notify"
	redisstore "github.com/MrSnakeDoc/smartmarks/internal/store/redis"
	"github.com/MrSnakeDoc/smartmarks/internal/web"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	RedisClient *redis.Client     // Shared Redis connection
	Store       *redisstore.Store // Durable record store
	Auth        *auth.Service     // Accounts and sessions
	Publisher   *notify.Publisher // Change notification fan-out
	Renderer    *web.Renderer     // Page templates

	CookieSecure bool          // Secure attribute on the session cookie
	SessionTTL   time.Duration // Session lifetime (drives cookie expiry)

	AllowedHosts []string // Host headers allowed to access the server (empty = any)
	AdminCIDRS   []string // IPs allowed to reach the ops endpoints (empty = any)
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	LoginRateBurst  int // sign-in rate limit: bucket capacity per IP
	LoginRatePerMin int // sign-in rate limit: refill per minute

	SweepTrigger chan struct{} // Channel to trigger a manual index sweep
}
