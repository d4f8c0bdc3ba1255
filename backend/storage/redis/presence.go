// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Online status lives in Redis as TTL keys: set when a socket
// authenticates, refreshed on pong, deleted on disconnect. A crashed
// process leaves keys that simply expire.
package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	onlinePrefix = "online:"

	// OnlineTTL must exceed the socket ping interval so a live connection
	// keeps its key refreshed.
	OnlineTTL = 90 * time.Second
)

type PresenceStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewPresenceStore(rdb *redis.Client) *PresenceStore {
	return &PresenceStore{
		rdb: rdb,
		ctx: context.Background(),
	}
}

func onlineKey(userID int64) string {
	return onlinePrefix + strconv.FormatInt(userID, 10)
}

func (s *PresenceStore) MarkOnline(userID int64) error {
	return s.rdb.Set(s.ctx, onlineKey(userID), "1", OnlineTTL).Err()
}

func (s *PresenceStore) MarkOffline(userID int64) error {
	return s.rdb.Del(s.ctx, onlineKey(userID)).Err()
}

func (s *PresenceStore) Online(userIDs []int64) (map[int64]bool, error) {
	online := make(map[int64]bool, len(userIDs))
	if len(userIDs) == 0 {
		return online, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[int64]*redis.IntCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Exists(s.ctx, onlineKey(id))
	}
	if _, err := pipe.Exec(s.ctx); err != nil {
		return nil, err
	}

	for id, cmd := range cmds {
		online[id] = cmd.Val() > 0
	}
	return online, nil
}
