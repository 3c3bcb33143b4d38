package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// rateLimitedClient gates CreateMessage calls through a token bucket so
// concurrent evolution branches cannot exceed the API's request budget.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// RateLimited wraps client with a limiter of rps requests per second and the
// given burst. A non-positive rps returns the client unwrapped.
func RateLimited(client Client, rps float64, burst int) Client {
	if rps <= 0 {
		return client
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{
		inner:   client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *rateLimitedClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "llm: rate limit wait")
	}
	return c.inner.CreateMessage(ctx, req)
}
