package dto

type AvailabilityResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Station   string `json:"station"`
	Available bool   `json:"available"`
	Rule      string `json:"rule,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type SlotsResponse struct {
	Date    string   `json:"date"`
	Station string   `json:"station"`
	Slots   []string `json:"slots"`
}

type TravelTimeResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
	Source  string `json:"source"`
}
