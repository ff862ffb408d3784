package models

// DecayInfo mirrors the on-chain reward schedule in display units.
type DecayInfo struct {
	InitialReward       string  `json:"initialReward"`
	FinalReward         string  `json:"finalReward"`
	DecayDurationInDays float64 `json:"decayDurationInDays"`
	LaunchTimestamp     int64   `json:"launchTimestamp"`
}

type ClaimableResponse struct {
	ClaimableAmount       string    `json:"claimableAmount"`
	CurrentRewardPerClick string    `json:"currentRewardPerClick"`
	Decay                 DecayInfo `json:"decay"`
}
