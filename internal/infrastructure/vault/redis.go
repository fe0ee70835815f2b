package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Bingusala/rosy-glow/internal/core/domain"
	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

const connectTimeout = 5 * time.Second

// RedisConfig captures the settings for the redis-backed vault.
type RedisConfig struct {
	Addr   string
	DB     int
	Prefix string
}

// RedisVault persists the two slots as two keys under a common prefix.
// Both keys are written in a single pipeline and deleted in a single DEL,
// so a reader never finds one without the other.
type RedisVault struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewRedis connects to redis and validates connectivity with a ping before
// handing the vault back.
func NewRedis(ctx context.Context, cfg RedisConfig, log zerolog.Logger) (*RedisVault, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis vault: address required")
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis vault ping: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "rosyglow:session:"
	}
	return &RedisVault{
		client: client,
		prefix: prefix,
		log:    log.With().Str("component", "vault").Logger(),
	}, nil
}

func (v *RedisVault) credentialKey() string { return v.prefix + "credential" }
func (v *RedisVault) identityKey() string   { return v.prefix + "identity" }

func (v *RedisVault) Load(ctx context.Context) (domain.Credential, *domain.Identity, error) {
	values, err := v.client.MGet(ctx, v.credentialKey(), v.identityKey()).Result()
	if err != nil {
		return domain.Credential{}, nil, fmt.Errorf("load session: %w", err)
	}

	credRaw, credOK := values[0].(string)
	identRaw, identOK := values[1].(string)
	if !credOK || !identOK {
		// One slot without the other is the corrupt-partial state; read it
		// as absence.
		if credOK != identOK {
			v.log.Warn().Msg("discarding partial persisted session")
		}
		return domain.Credential{}, nil, nil
	}

	var doc document
	if err := json.Unmarshal([]byte(credRaw), &doc.Credential); err != nil {
		v.log.Warn().Msg("discarding unusable persisted credential")
		return domain.Credential{}, nil, nil
	}
	doc.Identity = &domain.Identity{}
	if err := json.Unmarshal([]byte(identRaw), doc.Identity); err != nil {
		v.log.Warn().Msg("discarding unusable persisted identity")
		return domain.Credential{}, nil, nil
	}
	if !doc.usable() {
		return domain.Credential{}, nil, nil
	}
	return doc.Credential, doc.Identity, nil
}

func (v *RedisVault) Store(ctx context.Context, cred domain.Credential, identity *domain.Identity) error {
	credRaw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	identRaw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	pipe := v.client.TxPipeline()
	pipe.Set(ctx, v.credentialKey(), credRaw, 0)
	pipe.Set(ctx, v.identityKey(), identRaw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (v *RedisVault) Clear(ctx context.Context) error {
	if err := v.client.Del(ctx, v.credentialKey(), v.identityKey()).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (v *RedisVault) Close() error { return v.client.Close() }

var _ ports.SessionVault = (*RedisVault)(nil)
