package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"userprofile-backend/internal/features/profile/models"
)

// Memory is an in-process ProfileCache backed by an expirable LRU.
// Entries are evicted by recency once size is reached and expire ttl
// after they were written.
type Memory struct {
	lru *expirable.LRU[string, *models.Profile]
}

func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, *models.Profile](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, id string) (*models.Profile, bool) {
	return m.lru.Get(id)
}

func (m *Memory) Set(_ context.Context, id string, profile *models.Profile) {
	m.lru.Add(id, profile)
}

func (m *Memory) Delete(_ context.Context, id string) {
	m.lru.Remove(id)
}
