package request

type CreateReservationRequest struct {
	StudioID         string `json:"studio_id" validate:"required,uuid4"`
	RoomID           string `json:"room_id" validate:"required,uuid4"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime        string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime          string `json:"end_time" validate:"required,datetime=15:04"`
	PaymentMethodRef string `json:"payment_method_ref" validate:"required"`
	Message          string `json:"message" validate:"max=2000"`
}

type RejectReservationRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}
