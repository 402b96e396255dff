package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

func loginAttemptsKey(email string) string { return "login_attempts:" + email }
func loginCooldownKey(email string) string { return "login_cooldown:" + email }
func revokedTokenKey(jti string) string    { return "blacklist:" + jti }
func revokedUserKey(userID int64) string   { return fmt.Sprintf("revoked_before:%d", userID) }

// LoginBlocked returns the remaining cooldown for email, or zero.
func (s *Store) LoginBlocked(ctx context.Context, email string) (time.Duration, error) {
	if !s.Enabled() {
		return 0, nil
	}
	ttl, err := s.rdb.TTL(ctx, loginCooldownKey(email)).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// LoginFailed counts a failed attempt. Once LoginMaxAttempts is reached the
// address is put on cooldown and the counter starts over.
func (s *Store) LoginFailed(ctx context.Context, email string) (remaining int, err error) {
	if !s.Enabled() {
		return LoginMaxAttempts, nil
	}

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, loginAttemptsKey(email))
	pipe.Expire(ctx, loginAttemptsKey(email), LoginCooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	attempts := int(incr.Val())
	if attempts < LoginMaxAttempts {
		return LoginMaxAttempts - attempts, nil
	}

	pipe = s.rdb.TxPipeline()
	pipe.Set(ctx, loginCooldownKey(email), "1", LoginCooldown)
	pipe.Del(ctx, loginAttemptsKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	s.log.WarnContext(ctx, "login cooldown started", "email", email, "cooldown", LoginCooldown.String())
	return 0, nil
}

// LoginSucceeded clears the counters for email.
func (s *Store) LoginSucceeded(ctx context.Context, email string) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Del(ctx, loginAttemptsKey(email), loginCooldownKey(email)).Err()
}

// RevokeToken blacklists a token id until it would have expired anyway.
func (s *Store) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if !s.Enabled() || ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedTokenKey(jti), "revoked", ttl).Err()
}

// RevokeUser invalidates every token of userID issued up to now.
func (s *Store) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Set(ctx, revokedUserKey(userID), time.Now().Unix(), ttl).Err()
}

// IsRevoked reports whether a token was revoked individually or belongs to
// a user whose tokens were revoked after it was issued.
func (s *Store) IsRevoked(ctx context.Context, jti string, userID int64, issuedAt time.Time) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	pipe := s.rdb.Pipeline()
	exists := pipe.Exists(ctx, revokedTokenKey(jti))
	before := pipe.Get(ctx, revokedUserKey(userID))
	if _, err := pipe.Exec(ctx); err != nil && !isMiss(err) {
		return false, err
	}
	if exists.Val() > 0 {
		return true, nil
	}

	raw, err := before.Result()
	if isMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("revoked_before for user %d: %w", userID, err)
	}
	return issuedAt.Unix() <= cutoff, nil
}
