package availability

type DatesResponse struct {
	ServiceID int64    `json:"service_id"`
	Dates     []string `json:"dates"`
}

type SlotsResponse struct {
	ServiceID int64  `json:"service_id"`
	Date      string `json:"date"`
	Timezone  string `json:"timezone"`
	Slots     []Slot `json:"slots"`
}
