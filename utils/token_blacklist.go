package utils

import (
	"context"
	"strconv"
	"sync"
	"time"
)

const (
	blacklistKeyPrefix  = "session:revoked:"
	userRevokeKeyPrefix = "session:revoked-user:"
)

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex

	userRevocations = map[uint]userRevocation{}
)

type userRevocation struct {
	at      int64
	expires time.Time
}

// BlacklistToken revokes a session token until its natural expiration.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnf("redis blacklist failed, using memory: %v", err)
	}
	blacklistMu.Lock()
	blacklist[token] = expiresAt
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil && n > 0 {
			return true
		}
	}

	blacklistMu.RLock()
	expiresAt, ok := blacklist[token]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, token)
		blacklistMu.Unlock()
		return false
	}
	return true
}

// RevokeUserSessions invalidates every session of userID issued up to now.
// The mark lives as long as a session can, so older tokens never pass again.
func RevokeUserSessions(userID uint) {
	now := time.Now()
	ttl := SessionTTL()
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := userRevokeKeyPrefix + strconv.FormatUint(uint64(userID), 10)
		err := rc.Set(ctx, key, now.Unix(), ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnf("redis user revocation failed, using memory: %v", err)
	}
	blacklistMu.Lock()
	userRevocations[userID] = userRevocation{at: now.Unix(), expires: now.Add(ttl)}
	blacklistMu.Unlock()
}

// IsUserRevoked reports whether a session of userID issued at issuedAt was
// revoked by RevokeUserSessions. Issue times have second precision, so a
// token minted in the revocation second is rejected too.
func IsUserRevoked(userID uint, issuedAt time.Time) bool {
	iat := issuedAt.Unix()
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		at, err := rc.Get(ctx, userRevokeKeyPrefix+strconv.FormatUint(uint64(userID), 10)).Int64()
		if err == nil && iat <= at {
			return true
		}
	}

	blacklistMu.RLock()
	rev, ok := userRevocations[userID]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(rev.expires) {
		blacklistMu.Lock()
		delete(userRevocations, userID)
		blacklistMu.Unlock()
		return false
	}
	return iat <= rev.at
}
