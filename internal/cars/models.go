package cars

type Car struct {
	ID          int64  `json:"id"`
	PlateNumber string `json:"plateNumber"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Rented      bool   `json:"rented"`
}
