package domain

// CarDetails is the structured result of an AI scan of a car photo. Every
// field, including Confidence, must be present in the model response.
type CarDetails struct {
	Make         string  `json:"make" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	Year         int     `json:"year" validate:"required"`
	Color        string  `json:"color" validate:"required"`
	Price        string  `json:"price" validate:"required"`
	Mileage      string  `json:"mileage" validate:"required"`
	BodyType     string  `json:"bodyType" validate:"required"`
	FuelType     string  `json:"fuelType" validate:"required"`
	Transmission string  `json:"transmission" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Confidence   float64 `json:"confidence" validate:"min=0,max=1"`
}

// ImageSearchQuery is the reduced extraction used by image-based search.
type ImageSearchQuery struct {
	Make       string  `json:"make"`
	BodyType   string  `json:"bodyType"`
	Color      string  `json:"color"`
	Confidence float64 `json:"confidence"`
}
