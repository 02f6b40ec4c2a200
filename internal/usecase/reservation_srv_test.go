package usecase

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type reservationFixture struct {
	service     ReservationService
	studios     *MockStudioRepository
	rooms       *MockRoomRepository
	reservation *MockReservationRepository

	ownerID     uuid.UUID
	requesterID uuid.UUID
	studio      *entity.Studio
	room        *entity.Room
}

func newReservationFixture() *reservationFixture {
	studios := new(MockStudioRepository)
	rooms := new(MockRoomRepository)
	reservations := new(MockReservationRepository)
	reviews := new(MockReviewRepository)

	repo := testRepository(studios, rooms, reservations, reviews)
	service := NewReservationService(repo, testConfig(), nopLogger())

	ownerID := uuid.New()
	studio := &entity.Studio{OwnerID: ownerID, Name: "Northside Sound", City: "Berlin", IsActive: true}
	studio.ID = uuid.New()

	room := &entity.Room{StudioID: studio.ID, Name: "Live Room A", HourlyRate: 50, Capacity: 6, IsActive: true}
	room.ID = uuid.New()

	return &reservationFixture{
		service:     service,
		studios:     studios,
		rooms:       rooms,
		reservation: reservations,
		ownerID:     ownerID,
		requesterID: uuid.New(),
		studio:      studio,
		room:        room,
	}
}

// tomorrowWindow returns tomorrow's date plus a start/end pair on it.
func tomorrowWindow(startHour, endHour int) (date, start, end time.Time) {
	now := time.Now().UTC().AddDate(0, 0, 1)
	date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = date.Add(time.Duration(startHour) * time.Hour)
	end = date.Add(time.Duration(endHour) * time.Hour)
	return date, start, end
}

func (f *reservationFixture) pendingReservation(startHour, endHour int) *entity.Reservation {
	date, start, end := tomorrowWindow(startHour, endHour)
	reservation := &entity.Reservation{
		StudioID:         f.studio.ID,
		RoomID:           f.room.ID,
		RequesterID:      f.requesterID,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		DurationHours:    float64(endHour - startHour),
		HourlyRate:       f.room.HourlyRate,
		Status:           entity.ReservationStatusPending,
		PaymentMethodRef: "pm_card_123",
	}
	reservation.ID = uuid.New()
	return reservation
}

// ==================== CREATE ====================

func TestCreateRequest(t *testing.T) {
	f := newReservationFixture()

	date, _, _ := tomorrowWindow(10, 12)
	req := &request.CreateReservationRequest{
		StudioID:         f.studio.ID.String(),
		RoomID:           f.room.ID.String(),
		Date:             date.Format("2006-01-02"),
		StartTime:        "10:00",
		EndTime:          "12:30",
		PaymentMethodRef: "pm_card_123",
		Message:          "Need the drum kit set up",
	}

	f.rooms.On("FindActiveWithStudio", mock.Anything, f.room.ID, f.studio.ID).Return(f.room, nil)
	f.reservation.On("HasConflict", mock.Anything, f.room.ID, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).Return(false, nil)
	f.reservation.On("Create", mock.Anything, mock.AnythingOfType("*entity.Reservation")).Return(nil)

	resp, err := f.service.CreateRequest(context.Background(), f.requesterID, req)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPending, resp.Status)
	assert.Equal(t, 2.5, resp.DurationHours)
	assert.Equal(t, 125.00, resp.Subtotal)
	assert.Equal(t, 3.75, resp.FeeAmount)
	assert.Equal(t, 128.75, resp.TotalAmount)
	assert.Equal(t, "pm_card_123", resp.PaymentMethodRef)
	f.reservation.AssertExpectations(t)
}

func TestCreateRequestSlotTaken(t *testing.T) {
	f := newReservationFixture()

	date, _, _ := tomorrowWindow(10, 12)
	req := &request.CreateReservationRequest{
		StudioID:         f.studio.ID.String(),
		RoomID:           f.room.ID.String(),
		Date:             date.Format("2006-01-02"),
		StartTime:        "10:00",
		EndTime:          "12:00",
		PaymentMethodRef: "pm_card_123",
	}

	f.rooms.On("FindActiveWithStudio", mock.Anything, f.room.ID, f.studio.ID).Return(f.room, nil)
	f.reservation.On("HasConflict", mock.Anything, f.room.ID, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).Return(true, nil)

	_, err := f.service.CreateRequest(context.Background(), f.requesterID, req)
	assert.ErrorIs(t, err, ErrConflict)
	f.reservation.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequestPastDate(t *testing.T) {
	f := newReservationFixture()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	req := &request.CreateReservationRequest{
		StudioID:         f.studio.ID.String(),
		RoomID:           f.room.ID.String(),
		Date:             yesterday.Format("2006-01-02"),
		StartTime:        "10:00",
		EndTime:          "12:00",
		PaymentMethodRef: "pm_card_123",
	}

	_, err := f.service.CreateRequest(context.Background(), f.requesterID, req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateRequestInvertedWindow(t *testing.T) {
	f := newReservationFixture()

	date, _, _ := tomorrowWindow(10, 12)
	req := &request.CreateReservationRequest{
		StudioID:         f.studio.ID.String(),
		RoomID:           f.room.ID.String(),
		Date:             date.Format("2006-01-02"),
		StartTime:        "12:00",
		EndTime:          "10:00",
		PaymentMethodRef: "pm_card_123",
	}

	_, err := f.service.CreateRequest(context.Background(), f.requesterID, req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateRequestRoomNotFound(t *testing.T) {
	f := newReservationFixture()

	date, _, _ := tomorrowWindow(10, 12)
	req := &request.CreateReservationRequest{
		StudioID:         f.studio.ID.String(),
		RoomID:           f.room.ID.String(),
		Date:             date.Format("2006-01-02"),
		StartTime:        "10:00",
		EndTime:          "12:00",
		PaymentMethodRef: "pm_card_123",
	}

	f.rooms.On("FindActiveWithStudio", mock.Anything, f.room.ID, f.studio.ID).Return(nil, nil)

	_, err := f.service.CreateRequest(context.Background(), f.requesterID, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== APPROVE ====================

func TestApprove(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	neighbor := f.pendingReservation(13, 14)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("FindActiveByRoomDateForUpdate", mock.Anything, f.room.ID, reservation.Date).
		Return([]*entity.Reservation{reservation, neighbor}, nil)
	f.reservation.On("UpdateStatus", mock.Anything, reservation).Return(nil)

	resp, err := f.service.Approve(context.Background(), reservation.ID.String(), f.ownerID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, resp.Status)
	assert.NotNil(t, resp.DecidedAt)
	f.reservation.AssertExpectations(t)
}

func TestApproveConflictLeavesPending(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	blocker := f.pendingReservation(11, 13)
	blocker.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("FindActiveByRoomDateForUpdate", mock.Anything, f.room.ID, reservation.Date).
		Return([]*entity.Reservation{reservation, blocker}, nil)

	_, err := f.service.Approve(context.Background(), reservation.ID.String(), f.ownerID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, entity.ReservationStatusPending, reservation.Status)
	f.reservation.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestApproveIdempotent(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	resp, err := f.service.Approve(context.Background(), reservation.ID.String(), f.ownerID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, resp.Status)
	f.reservation.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	f.reservation.AssertNotCalled(t, "FindActiveByRoomDateForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveRejectedFails(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusRejected

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	_, err := f.service.Approve(context.Background(), reservation.ID.String(), f.ownerID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestApproveNotOwner(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	_, err := f.service.Approve(context.Background(), reservation.ID.String(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveWithoutPaymentMethod(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.PaymentMethodRef = ""

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	_, err := f.service.Approve(context.Background(), reservation.ID.String(), f.ownerID)
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)
}

func TestApproveNotFound(t *testing.T) {
	f := newReservationFixture()
	missing := uuid.New()

	f.reservation.On("FindByIDForUpdate", mock.Anything, missing).Return(nil, nil)

	_, err := f.service.Approve(context.Background(), missing.String(), f.ownerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== REJECT ====================

func TestReject(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("UpdateStatus", mock.Anything, reservation).Return(nil)

	resp, err := f.service.Reject(context.Background(), reservation.ID.String(), f.ownerID, "room under maintenance")
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusRejected, resp.Status)
	if assert.NotNil(t, resp.DecisionReason) {
		assert.Equal(t, "room under maintenance", *resp.DecisionReason)
	}
	assert.NotNil(t, resp.DecidedAt)
}

// ==================== CANCEL ====================

func TestCancelByRequester(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.reservation.On("UpdateStatus", mock.Anything, reservation).Return(nil)

	resp, err := f.service.Cancel(context.Background(), reservation.ID.String(), f.requesterID, entity.RoleArtist)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, resp.Status)
}

func TestCancelByStranger(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)

	_, err := f.service.Cancel(context.Background(), reservation.ID.String(), uuid.New(), entity.RoleArtist)
	assert.ErrorIs(t, err, ErrForbidden)
	f.reservation.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestCancelPendingByStudioForbidden(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	// Studios reject pending requests; cancelling is the artist's move.
	_, err := f.service.Cancel(context.Background(), reservation.ID.String(), f.ownerID, entity.RoleStudio)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelConfirmedByStudio(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("UpdateStatus", mock.Anything, reservation).Return(nil)

	resp, err := f.service.Cancel(context.Background(), reservation.ID.String(), f.ownerID, entity.RoleStudio)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, resp.Status)
}

func TestCancelCompletedFails(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusCompleted

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)

	_, err := f.service.Cancel(context.Background(), reservation.ID.String(), f.requesterID, entity.RoleArtist)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

// ==================== COMPLETE ====================

func TestCompleteTooEarly(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	_, err := f.service.Complete(context.Background(), reservation.ID.String(), f.ownerID, entity.RoleStudio)
	assert.ErrorIs(t, err, ErrTooEarly)
	f.reservation.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestCompleteElapsedWindow(t *testing.T) {
	f := newReservationFixture()
	reservation := f.pendingReservation(10, 12)
	reservation.Status = entity.ReservationStatusConfirmed
	reservation.StartTime = time.Now().UTC().Add(-3 * time.Hour)
	reservation.EndTime = time.Now().UTC().Add(-time.Hour)

	f.reservation.On("FindByIDForUpdate", mock.Anything, reservation.ID).Return(reservation, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("UpdateStatus", mock.Anything, reservation).Return(nil)

	resp, err := f.service.Complete(context.Background(), reservation.ID.String(), f.ownerID, entity.RoleStudio)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCompleted, resp.Status)
}

// ==================== LISTS ====================

func TestListByRequesterBadStatusFilter(t *testing.T) {
	f := newReservationFixture()

	_, err := f.service.ListByRequester(context.Background(), f.requesterID, "bogus",
		request.PaginatedRequest{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestListByStudioRequiresOwner(t *testing.T) {
	f := newReservationFixture()

	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)

	_, err := f.service.ListByStudio(context.Background(), f.studio.ID.String(), uuid.New(), "",
		request.PaginatedRequest{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrForbidden)
}

// ==================== SWEEP ====================

func TestCompleteElapsed(t *testing.T) {
	f := newReservationFixture()

	first := f.pendingReservation(10, 12)
	first.Status = entity.ReservationStatusConfirmed
	second := f.pendingReservation(14, 16)
	second.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindElapsedConfirmed", mock.Anything, mock.Anything).
		Return([]*entity.Reservation{first, second}, nil)
	f.reservation.On("FindByIDForUpdate", mock.Anything, first.ID).Return(first, nil)
	f.reservation.On("FindByIDForUpdate", mock.Anything, second.ID).Return(second, nil)
	f.reservation.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*entity.Reservation")).Return(nil)

	count, err := f.service.CompleteElapsed(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, entity.ReservationStatusCompleted, first.Status)
	assert.Equal(t, entity.ReservationStatusCompleted, second.Status)
}

// ==================== END-TO-END ====================

// TestReservationLifecycle walks one room through a full day: a request is
// created, an overlapping request is refused, the first is approved and the
// approval replays as a no-op, and a back-to-back slot still goes through.
func TestReservationLifecycle(t *testing.T) {
	f := newReservationFixture()
	date, _, _ := tomorrowWindow(10, 12)

	makeReq := func(startTime, endTime string) *request.CreateReservationRequest {
		return &request.CreateReservationRequest{
			StudioID:         f.studio.ID.String(),
			RoomID:           f.room.ID.String(),
			Date:             date.Format("2006-01-02"),
			StartTime:        startTime,
			EndTime:          endTime,
			PaymentMethodRef: "pm_card_123",
		}
	}

	var created []*entity.Reservation
	f.rooms.On("FindActiveWithStudio", mock.Anything, f.room.ID, f.studio.ID).Return(f.room, nil)
	f.studios.On("FindByID", mock.Anything, f.studio.ID).Return(f.studio, nil)
	f.reservation.On("Create", mock.Anything, mock.AnythingOfType("*entity.Reservation")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*entity.Reservation))
		}).Return(nil)
	f.reservation.On("UpdateStatus", mock.Anything, mock.AnythingOfType("*entity.Reservation")).Return(nil)

	// 10:00-12:00 is free.
	f.reservation.On("HasConflict", mock.Anything, f.room.ID, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).
		Return(false, nil).Once()
	first, err := f.service.CreateRequest(context.Background(), f.requesterID, makeReq("10:00", "12:00"))
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPending, first.Status)

	// 11:00-13:00 overlaps the pending request and is refused up front.
	f.reservation.On("HasConflict", mock.Anything, f.room.ID, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).
		Return(true, nil).Once()
	_, err = f.service.CreateRequest(context.Background(), f.requesterID, makeReq("11:00", "13:00"))
	assert.ErrorIs(t, err, ErrConflict)

	// The studio approves the first request.
	f.reservation.On("FindByIDForUpdate", mock.Anything, created[0].ID).Return(created[0], nil)
	f.reservation.On("FindActiveByRoomDateForUpdate", mock.Anything, f.room.ID, created[0].Date).
		Return([]*entity.Reservation{created[0]}, nil).Once()
	approved, err := f.service.Approve(context.Background(), first.ID, f.ownerID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, approved.Status)

	// A replayed approve is a no-op success.
	again, err := f.service.Approve(context.Background(), first.ID, f.ownerID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, again.Status)

	// 12:00-14:00 is back to back with the confirmed slot and goes through.
	f.reservation.On("HasConflict", mock.Anything, f.room.ID, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).
		Return(false, nil).Once()
	second, err := f.service.CreateRequest(context.Background(), f.requesterID, makeReq("12:00", "14:00"))
	assert.NoError(t, err)

	f.reservation.On("FindByIDForUpdate", mock.Anything, created[1].ID).Return(created[1], nil)
	f.reservation.On("FindActiveByRoomDateForUpdate", mock.Anything, f.room.ID, created[1].Date).
		Return([]*entity.Reservation{created[0], created[1]}, nil).Once()
	adjacent, err := f.service.Approve(context.Background(), second.ID, f.ownerID)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusConfirmed, adjacent.Status)
}

func TestCompleteElapsedSkipsAlreadyMoved(t *testing.T) {
	f := newReservationFixture()

	moved := f.pendingReservation(10, 12)
	moved.Status = entity.ReservationStatusConfirmed

	f.reservation.On("FindElapsedConfirmed", mock.Anything, mock.Anything).
		Return([]*entity.Reservation{moved}, nil)

	// Another worker cancelled it between the scan and the lock.
	cancelled := *moved
	cancelled.Status = entity.ReservationStatusCancelled
	f.reservation.On("FindByIDForUpdate", mock.Anything, moved.ID).Return(&cancelled, nil)

	count, err := f.service.CompleteElapsed(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	f.reservation.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
