package catalog

// ServiceView is a public service listing with its computed deposit.
type ServiceView struct {
	Service
	DepositCents int64 `json:"deposit_cents"`
}

type CreateBlackoutRequest struct {
	Date   string `json:"date" binding:"required" validate:"required,date"`
	Reason string `json:"reason" validate:"max=255"`
}
