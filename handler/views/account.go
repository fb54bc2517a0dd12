package views

// Account connector status and positions of an account
type Account struct {
	Address     string      `json:"address"`
	Controller  string      `json:"controller,omitempty"`
	Collaterals []string    `json:"collaterals"`
	Positions   []*Position `json:"positions"`
}

// Position holdings of an account in one vault
type Position struct {
	Vault  string `json:"vault"`
	Shares string `json:"shares"`
	Assets string `json:"assets"`
	Debt   string `json:"debt"`
}

// Liquidity account liquidity against its controller
type Liquidity struct {
	Vault      string `json:"vault"`
	Collateral string `json:"collateral_value"`
	Liability  string `json:"liability_value"`
	Healthy    bool   `json:"healthy"`
}

// Liquidation result of a liquidation check
type Liquidation struct {
	MaxRepay string `json:"max_repay"`
	MaxYield string `json:"max_yield"`
}
