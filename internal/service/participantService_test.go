package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evreg/registration-service/internal/entity"
)

// seedReservation stores a registration with n participants and returns it.
func seedReservation(store *fakeStore, event *entity.Event, regType entity.RegistrationType, n int, paid bool) *entity.Registration {
	createdAt := time.Now()
	registration := &entity.Registration{
		ID:                newID(createdAt),
		EventID:           event.ID,
		Type:              regType,
		TotalParticipants: n,
		TotalFee:          event.RegistrationFee * float64(n),
		PaymentStatus:     paid,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	store.registrations[registration.ID] = registration

	for i := 0; i < n; i++ {
		participant := seedParticipant(store, event.ID, newID(createdAt)+"@example.com")
		participant.ReservationID = registration.ID
		participant.CreatedAt = createdAt.Add(time.Duration(i) * time.Second)
	}
	event.CurrentParticipants += n
	return registration
}

func newTestParticipantService(store *fakeStore) ParticipantService {
	return NewParticipantService(fakeEventRepo{store}, fakeRegistrationRepo{store}, fakeParticipantRepo{store})
}

func TestListEventParticipants(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeTeam, 20, 0)
	team := seedReservation(store, event, entity.RegistrationTypeTeam, 3, true)
	single := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)
	svc := newTestParticipantService(store)

	listing, err := svc.ListEventParticipants(context.Background(), event.ID, event.CreatorID)
	require.NoError(t, err)

	assert.Equal(t, event.ID, listing.EventID)
	require.Len(t, listing.Participants, 4)

	assert.True(t, sort.SliceIsSorted(listing.Participants, func(i, j int) bool {
		a, b := listing.Participants[i], listing.Participants[j]
		if a.ReservationID != b.ReservationID {
			return a.ReservationID < b.ReservationID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}), "listing is ordered by reservation, then creation time")

	for _, p := range listing.Participants {
		switch p.ReservationID {
		case team.ID:
			assert.Equal(t, entity.RegistrationTypeTeam, p.RegistrationType)
			assert.True(t, p.PaymentStatus)
			assert.Equal(t, 3, p.TotalParticipants)
		case single.ID:
			assert.Equal(t, entity.RegistrationTypeIndividual, p.RegistrationType)
			assert.False(t, p.PaymentStatus)
		default:
			t.Fatalf("unexpected reservation id %s", p.ReservationID)
		}
	}

	summary := listing.Summary
	assert.Equal(t, 4, summary.TotalParticipants)
	assert.Equal(t, 2, summary.TotalRegistrations)
	assert.Equal(t, 1, summary.PaidRegistrations)
	assert.Equal(t, 1, summary.UnpaidRegistrations)
	assert.Equal(t, 1, summary.TeamRegistrations)
	assert.Equal(t, 1, summary.IndividualRegistrations)
}

func TestListEventParticipants_ForbiddenForStranger(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	svc := newTestParticipantService(store)

	_, err := svc.ListEventParticipants(context.Background(), event.ID, newID(time.Now()))
	domainErr, ok := entity.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, entity.CodeForbidden, domainErr.Code)
}

func TestListEventParticipants_ToleratesRegistrationLookupFailure(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, true)
	store.failGetRegistration[registration.ID] = errStoreDown
	svc := newTestParticipantService(store)

	listing, err := svc.ListEventParticipants(context.Background(), event.ID, event.CreatorID)
	require.NoError(t, err)
	require.Len(t, listing.Participants, 1)

	// Merged fields fall back to defaults when the lookup fails.
	assert.Equal(t, entity.RegistrationTypeIndividual, listing.Participants[0].RegistrationType)
	assert.False(t, listing.Participants[0].PaymentStatus)
	assert.Equal(t, 1, listing.Participants[0].TotalParticipants)
}

func TestListGroupedByReservation(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeTeam, 20, 0)
	team := seedReservation(store, event, entity.RegistrationTypeTeam, 4, false)
	seedReservation(store, event, entity.RegistrationTypeIndividual, 1, true)
	svc := newTestParticipantService(store)

	groups, err := svc.ListGroupedByReservation(context.Background(), event.ID, event.CreatorID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byID := make(map[string]*entity.ReservationGroup, len(groups))
	for _, group := range groups {
		byID[group.ReservationID] = group
	}
	require.Contains(t, byID, team.ID)
	assert.Len(t, byID[team.ID].Participants, 4)
	assert.Equal(t, entity.RegistrationTypeTeam, byID[team.ID].Type)
	assert.Equal(t, 400.0, byID[team.ID].TotalFee)
}

func TestDeleteReservation(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeTeam, 20, 0)
	team := seedReservation(store, event, entity.RegistrationTypeTeam, 4, false)
	other := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)
	svc := newTestParticipantService(store)

	require.Equal(t, 5, store.events[event.ID].CurrentParticipants)

	err := svc.DeleteReservation(context.Background(), team.ID, event.CreatorID)
	require.NoError(t, err)

	assert.NotContains(t, store.registrations, team.ID)
	assert.Contains(t, store.registrations, other.ID)
	assert.Equal(t, 1, store.events[event.ID].CurrentParticipants, "counter decrements by the team size")
	for _, participant := range store.participants {
		assert.NotEqual(t, team.ID, participant.ReservationID)
	}
}

func TestDeleteReservation_Errors(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)
	svc := newTestParticipantService(store)

	t.Run("malformed id", func(t *testing.T) {
		err := svc.DeleteReservation(context.Background(), "nope", event.CreatorID)
		domainErr, ok := entity.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, entity.CodeBadRequest, domainErr.Code)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		err := svc.DeleteReservation(context.Background(), newID(time.Now()), event.CreatorID)
		domainErr, ok := entity.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, entity.CodeNotFound, domainErr.Code)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		err := svc.DeleteReservation(context.Background(), registration.ID, newID(time.Now()))
		domainErr, ok := entity.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, entity.CodeForbidden, domainErr.Code)
		assert.Contains(t, store.registrations, registration.ID, "nothing is deleted on a failed authorization")
	})

	t.Run("store failure keeps everything", func(t *testing.T) {
		store.failDeleteReservation = errStoreDown
		defer func() { store.failDeleteReservation = nil }()

		err := svc.DeleteReservation(context.Background(), registration.ID, event.CreatorID)
		require.Error(t, err)
		assert.Contains(t, store.registrations, registration.ID)
		assert.Equal(t, 1, store.events[event.ID].CurrentParticipants)
	})
}
