package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evreg/registration-service/internal/entity"
)

func newTestPaymentService(store *fakeStore, publisher NotificationPublisher) *paymentService {
	svc := NewPaymentService(fakeRegistrationRepo{store}, fakeEventRepo{store}, fakeParticipantRepo{store}, publisher)
	return svc.(*paymentService)
}

func TestSetPaymentStatus(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)

	svc := newTestPaymentService(store, publisher)
	fixed := time.Date(2026, time.May, 3, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	updated, err := svc.SetPaymentStatus(context.Background(), registration.ID, true, nil)
	require.NoError(t, err)

	assert.True(t, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, fixed, *updated.PaymentDate, "payment date defaults to now")

	stored := store.registrations[registration.ID]
	assert.True(t, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentDate)
	assert.Equal(t, fixed, *stored.PaymentDate)

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, entity.TemplatePaymentReceived, publisher.messages[0].Template)
	assert.Equal(t, registration.ID, publisher.messages[0].ReservationID)
}

func TestSetPaymentStatus_ExplicitDate(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)
	svc := newTestPaymentService(store, nil)

	when := time.Date(2026, time.April, 1, 15, 30, 0, 0, time.UTC)
	updated, err := svc.SetPaymentStatus(context.Background(), registration.ID, true, &when)
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, when, *updated.PaymentDate)
}

func TestMarkUnpaid_DoesNotNotify(t *testing.T) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, true)
	svc := newTestPaymentService(store, publisher)

	updated, err := svc.MarkUnpaid(context.Background(), registration.ID)
	require.NoError(t, err)
	assert.False(t, updated.PaymentStatus)
	assert.Empty(t, publisher.messages, "reverting to unpaid sends nothing")
}

func TestSetPaymentStatus_Errors(t *testing.T) {
	store := newFakeStore()
	svc := newTestPaymentService(store, nil)

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.SetPaymentStatus(context.Background(), "short", true, nil)
		domainErr, ok := entity.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, entity.CodeBadRequest, domainErr.Code)
	})

	t.Run("unknown registration", func(t *testing.T) {
		_, err := svc.SetPaymentStatus(context.Background(), newID(time.Now()), true, nil)
		domainErr, ok := entity.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, entity.CodeNotFound, domainErr.Code)
	})
}

func TestGetPaymentStatus(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, true)
	svc := newTestPaymentService(store, nil)

	status, err := svc.GetPaymentStatus(context.Background(), registration.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, registration.ID, status.ReservationID)
	assert.True(t, status.Paid)
	assert.Equal(t, registration.TotalFee, status.TotalFee)
}

func TestGetPaymentStatus_NotFoundIsNil(t *testing.T) {
	svc := newTestPaymentService(newFakeStore(), nil)

	status, err := svc.GetPaymentStatus(context.Background(), newID(time.Now()))
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestGetPaymentStatus_InfraErrorPropagates(t *testing.T) {
	store := newFakeStore()
	event := seedEvent(store, entity.RegistrationTypeIndividual, 10, 0)
	registration := seedReservation(store, event, entity.RegistrationTypeIndividual, 1, false)
	store.failGetRegistration[registration.ID] = errStoreDown
	svc := newTestPaymentService(store, nil)

	_, err := svc.GetPaymentStatus(context.Background(), registration.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
}
