package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/reconciliation"
)

// AuditCache guarda el último resumen de auditoría por organización en Redis
// (cache-aside con TTL). Un cliente nil desactiva el caché sin romper a los callers.
type AuditCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAuditCache construye el caché. addr vacío devuelve un caché desactivado.
func NewAuditCache(addr, password string, db int, ttl time.Duration) *AuditCache {
	if addr == "" {
		return &AuditCache{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &AuditCache{client: client, ttl: ttl}
}

// Ping verifica la conexión (no-op si el caché está desactivado).
func (c *AuditCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (c *AuditCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func key(organizationID string) string {
	return "inventory:audit:" + organizationID
}

// Get devuelve el resumen cacheado de la organización, si existe.
func (c *AuditCache) Get(ctx context.Context, organizationID string) (*reconciliation.AuditSummary, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, key(organizationID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var summary reconciliation.AuditSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

// Set guarda el resumen con el TTL configurado.
func (c *AuditCache) Set(ctx context.Context, organizationID string, summary *reconciliation.AuditSummary) error {
	if c.client == nil || summary == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(organizationID), payload, c.ttl).Err()
}

// Invalidate borra el resumen cacheado (tras un fix o recálculo).
func (c *AuditCache) Invalidate(ctx context.Context, organizationID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(organizationID)).Err()
}
