// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/constants"
)

// # Confirmation Code Repository

// RedisConfirmationCodeRepository implements ConfirmationCodeRepository using Redis.
type RedisConfirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository creates a new Redis-backed ConfirmationCodeRepository.
func NewConfirmationCodeRepository(client *redis.Client) *RedisConfirmationCodeRepository {
	return &RedisConfirmationCodeRepository{client: client}
}

/*
Set stores the code hash for a userID with the given TTL.

Description: Redis SET semantics overwrite any previous record, so a repeated
signup automatically invalidates the earlier code.

Parameters:
  - context: context.Context
  - userID: string
  - codeHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisConfirmationCodeRepository) Set(context context.Context, userID string, codeHash string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + userID

	// Set the code hash with TTL
	if err := repository.client.Set(context, key, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirm_code_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the stored code hash for a userID.

Description: Returns apperr.NotFound if no code was issued or it has expired.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Code hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmationCodeRepository) Get(context context.Context, userID string) (string, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + userID

	// Get the code hash from Redis
	codeHash, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirm_code_get_failed: %w", err)
	}

	// Return the code hash
	return codeHash, nil
}

/*
Delete removes the code record from Redis.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisConfirmationCodeRepository) Delete(context context.Context, userID string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixConfirmCode + userID

	// Delete the code record from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirm_code_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
