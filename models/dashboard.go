package models

type DashboardStats struct {
	PlayersTotal        int `json:"playersTotal"`
	FederatedPlayers    int `json:"federatedPlayers"`
	TournamentsTotal    int `json:"tournamentsTotal"`
	UpcomingTournaments int `json:"upcomingTournaments"`
	RegistrationsTotal  int `json:"registrationsTotal"`
	PendingApprovals    int `json:"pendingApprovals"`
}
