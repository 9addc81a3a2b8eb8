package models

import "time"

// AdminStats aggregates operational counters for the admin dashboard.
type AdminStats struct {
	CatechumenesActifs    int            `json:"catechumenes_actifs"`
	ClassesActives        int            `json:"classes_actives"`
	InscriptionsParStatut map[string]int `json:"inscriptions_par_statut"`
	RenseignementsActifs  int            `json:"renseignements_actifs"`
	ActionsParStatut      map[string]int `json:"actions_par_statut"`
	FollowupsEnAttente    int64          `json:"followups_en_attente"`
	System                SystemMetrics  `json:"system"`
}

// SystemMetrics is the lightweight snapshot exposed alongside Prometheus.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"avg_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
