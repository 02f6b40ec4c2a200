package response

import (
	"studio-booking/internal/data/entity"
)

type StudioResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

type RoomResponse struct {
	ID         string  `json:"id"`
	StudioID   string  `json:"studio_id"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	Capacity   int     `json:"capacity"`
}

// Helper converters
func StudioToResponse(studio *entity.Studio) StudioResponse {
	return StudioResponse{
		ID:          studio.ID.String(),
		Name:        studio.Name,
		City:        studio.City,
		Rating:      studio.Rating,
		ReviewCount: studio.ReviewCount,
	}
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:         room.ID.String(),
		StudioID:   room.StudioID.String(),
		Name:       room.Name,
		HourlyRate: room.HourlyRate,
		Capacity:   room.Capacity,
	}
}
