package service

import "github.com/prometheus/client_golang/prometheus"

var (
	StatPointsSpent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rpg_stat_points_spent_total",
			Help: "Total stat points converted into attributes",
		},
	)
	TrainRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpg_train_rejected_total",
			Help: "Training requests rejected, by reason",
		},
		[]string{"reason"},
	)
	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpg_achievements_unlocked_total",
			Help: "Achievements unlocked, by achievement id",
		},
		[]string{"achievement"},
	)
	PlayersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rpg_players_created_total",
			Help: "Default player records created",
		},
	)
)

func init() {
	prometheus.MustRegister(StatPointsSpent, TrainRejected, AchievementsUnlocked, PlayersCreated)
}
