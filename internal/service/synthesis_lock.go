package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// SynthesisLocker garantiza a lo sumo una sintesis en curso por usuario.
// TryLock no espera: si el lock esta tomado devuelve domain.ErrConcurrentSynthesis.
type SynthesisLocker interface {
	TryLock(ctx context.Context, userID string) (release func(), err error)
}

// MemorySynthesisLocker sirve para una sola instancia del servicio.
type MemorySynthesisLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemorySynthesisLocker() *MemorySynthesisLocker {
	return &MemorySynthesisLocker{held: make(map[string]struct{})}
}

func (l *MemorySynthesisLocker) TryLock(_ context.Context, userID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[userID]; busy {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrConcurrentSynthesis)
	}
	l.held[userID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, userID)
			l.mu.Unlock()
		})
	}, nil
}

// Solo borra la clave si el token sigue siendo el nuestro.
const redisReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisSynthesisLocker comparte el lock entre instancias. La clave expira sola tras ttl
// para no bloquear al usuario si el proceso muere a mitad de una sintesis.
type RedisSynthesisLocker struct {
	client redisLockClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewRedisSynthesisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSynthesisLocker {
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSynthesisLocker{
		client: client,
		ttl:    ttl,
		prefix: "synth:lock:",
		logger: logger,
	}
}

// TryLock toma el lock con SET NX PX. Si Redis no responde se continua sin lock:
// la escritura versionada del perfil sigue evitando perder actualizaciones.
func (l *RedisSynthesisLocker) TryLock(ctx context.Context, userID string) (func(), error) {
	key := l.prefix + strings.TrimSpace(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.logger.Warn("synthesis lock unavailable, relying on version check", zap.String("user_id", userID), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrConcurrentSynthesis)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := l.client.Eval(rctx, redisReleaseScript, []string{key}, token).Err(); err != nil {
				l.logger.Warn("synthesis lock release failed", zap.String("user_id", userID), zap.Error(err))
			}
		})
	}, nil
}
