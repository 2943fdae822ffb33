package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/planfinderz-storefront/pkg/redis"
)

type cartKeyer interface {
	CartKey(sessionID string) string
}

// persistedCart is the stored layout. The total is never stored.
type persistedCart struct {
	Items []Item `json:"items"`
}

// SessionStore keeps cart lines in Redis keyed by cart session id. Every save
// refreshes the TTL so active carts never expire mid-session.
type SessionStore struct {
	kv    pkgredis.KV
	keyer cartKeyer
	ttl   time.Duration
}

// NewSessionStore builds a store over the supplied key/value backend.
func NewSessionStore(kv pkgredis.KV, keyer cartKeyer, ttl time.Duration) (*SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv store required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("cart keyer required")
	}
	return &SessionStore{kv: kv, keyer: keyer, ttl: ttl}, nil
}

// ErrCorruptCart wraps payloads that could not be decoded.
type ErrCorruptCart struct {
	SessionID string
	Err       error
}

func (e *ErrCorruptCart) Error() string {
	return fmt.Sprintf("cart %s payload corrupt: %v", e.SessionID, e.Err)
}

func (e *ErrCorruptCart) Unwrap() error {
	return e.Err
}

// Load returns the persisted lines for sessionID. A missing key is an empty cart.
func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]Item, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(sessionID))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var stored persistedCart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, &ErrCorruptCart{SessionID: sessionID, Err: err}
	}
	return stored.Items, nil
}

// Save writes the lines for sessionID. An empty cart deletes the key.
func (s *SessionStore) Save(ctx context.Context, sessionID string, items []Item) error {
	key := s.keyer.CartKey(sessionID)
	if len(items) == 0 {
		if err := s.kv.Del(ctx, key); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	}
	payload, err := json.Marshal(persistedCart{Items: items})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
