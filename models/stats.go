package models

// UserStats is the per-user statistics view rendered by /stats
type UserStats struct {
	User    *User
	WinRate float64 // percentage, 0 when no games played
}

// GlobalStats aggregates across all users for the admin surface
type GlobalStats struct {
	TotalUsers       int
	PremiumUsers     int
	TotalCredits     int64
	AverageCredits   int64
	TotalGamesPlayed int64
}
