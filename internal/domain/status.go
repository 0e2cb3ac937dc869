package domain

import "time"

type KindStat struct {
	Kind  string `json:"kind"`
	Open  int    `json:"open"`
	Total int    `json:"total"`
}

type SystemStatus struct {
	Opportunities     []KindStat     `json:"opportunities"`
	Applications      map[string]int `json:"applications_by_status"`
	ApplicationsToday int            `json:"applications_today"`
	DatabaseHealthy   bool           `json:"database_healthy"`
	RedisHealthy      bool           `json:"redis_healthy"`
	AIEnabled         bool           `json:"ai_enabled"`
	ServerTime        time.Time      `json:"server_time"`
}
