package model

type UserStatistic struct {
	User        User   `json:"user"`
	Value       int    `json:"value"`
	CurrentRank int    `json:"current_rank"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Leaderboard []UserStatistic `json:"leaderboard"`
}
