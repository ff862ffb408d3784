package models

// Tokenomics is the on-chain fee split in basis points.
type Tokenomics struct {
	DevFeeBPS        int64 `json:"devFeeBps"`
	FoundationFeeBPS int64 `json:"foundationFeeBps"`
	BurnFeeBPS       int64 `json:"burnFeeBps"`
	TotalFeeBPS      int64 `json:"totalFeeBps"`
}

// GlobalStats combines on-chain supply data with the off-chain click total.
// TotalClaimed is the circulating supply: everything minted that did not land
// in the dev, foundation or burn wallets, i.e. what went to players.
type GlobalStats struct {
	TotalSupply        string     `json:"totalSupply"`
	TotalClaimed       string     `json:"totalClaimed"`
	TotalClicksAllTime int64      `json:"totalClicksAllTime"`
	Tokenomics         Tokenomics `json:"tokenomics"`
}
