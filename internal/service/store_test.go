package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/evreg/registration-service/internal/entity"
)

// fakeStore is an in-memory implementation of all three repositories, shared
// by the service tests. Failure injection fields simulate infrastructure
// errors at specific seams.
type fakeStore struct {
	mu            sync.Mutex
	events        map[string]*entity.Event
	registrations map[string]*entity.Registration
	participants  map[string]*entity.Participant

	findEmailCalls int

	failCreateRegistration  error
	failCreateParticipants  error
	failIncrement           error
	failGetRegistration     map[string]error
	failDeleteReservation   error
	failFindByEventAndEmail error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:              make(map[string]*entity.Event),
		registrations:       make(map[string]*entity.Registration),
		participants:        make(map[string]*entity.Participant),
		failGetRegistration: make(map[string]error),
	}
}

// EventRepository

func (s *fakeStore) Create(ctx context.Context, event *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *fakeStore) GetAll(ctx context.Context) ([]*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []*entity.Event
	for _, event := range s.events {
		copied := *event
		events = append(events, &copied)
	}
	return events, nil
}

func (s *fakeStore) GetByCreator(ctx context.Context, creatorID string) ([]*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []*entity.Event
	for _, event := range s.events {
		if event.CreatorID == creatorID {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (s *fakeStore) Update(ctx context.Context, event *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	copied := *event
	s.events[event.ID] = &copied
	return nil
}

func (s *fakeStore) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.Enabled = enabled
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return entity.ErrEventNotFound
	}
	for _, registration := range s.registrations {
		if registration.EventID == id {
			return entity.ErrEventHasBookings
		}
	}
	delete(s.events, id)
	return nil
}

func (s *fakeStore) IncrementParticipants(ctx context.Context, id string, delta int) error {
	if s.failIncrement != nil {
		return s.failIncrement
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return entity.ErrEventNotFound
	}
	event.CurrentParticipants += delta
	return nil
}

// RegistrationRepository

func (s *fakeStore) CreateRegistration(ctx context.Context, registration *entity.Registration) error {
	if s.failCreateRegistration != nil {
		return s.failCreateRegistration
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *registration
	s.registrations[registration.ID] = &copied
	return nil
}

func (s *fakeStore) GetRegistrationByID(ctx context.Context, id string) (*entity.Registration, error) {
	if err, ok := s.failGetRegistration[id]; ok {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	registration, ok := s.registrations[id]
	if !ok {
		return nil, entity.ErrRegistrationNotFound
	}
	copied := *registration
	return &copied, nil
}

func (s *fakeStore) GetRegistrationsByEventID(ctx context.Context, eventID string) ([]*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var registrations []*entity.Registration
	for _, registration := range s.registrations {
		if registration.EventID == eventID {
			copied := *registration
			registrations = append(registrations, &copied)
		}
	}
	return registrations, nil
}

func (s *fakeStore) GetByPaymentStatus(ctx context.Context, eventID string, paid bool) ([]*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var registrations []*entity.Registration
	for _, registration := range s.registrations {
		if registration.EventID == eventID && registration.PaymentStatus == paid {
			copied := *registration
			registrations = append(registrations, &copied)
		}
	}
	return registrations, nil
}

func (s *fakeStore) UpdatePaymentStatus(ctx context.Context, id string, paid bool, paymentDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	registration, ok := s.registrations[id]
	if !ok {
		return entity.ErrRegistrationNotFound
	}
	registration.PaymentStatus = paid
	registration.PaymentDate = &paymentDate
	registration.UpdatedAt = paymentDate
	return nil
}

func (s *fakeStore) DeleteReservation(ctx context.Context, reservationID, eventID string, participantCount int) error {
	if s.failDeleteReservation != nil {
		return s.failDeleteReservation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[reservationID]; !ok {
		return entity.ErrRegistrationNotFound
	}
	event, ok := s.events[eventID]
	if !ok {
		return entity.ErrEventNotFound
	}

	// All-or-nothing, mirroring the SQL transaction.
	for id, participant := range s.participants {
		if participant.ReservationID == reservationID {
			delete(s.participants, id)
		}
	}
	delete(s.registrations, reservationID)
	event.CurrentParticipants -= participantCount
	return nil
}

// ParticipantRepository

func (s *fakeStore) CreateBatch(ctx context.Context, participants []*entity.Participant) error {
	if s.failCreateParticipants != nil {
		return s.failCreateParticipants
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, participant := range participants {
		copied := *participant
		s.participants[participant.ID] = &copied
	}
	return nil
}

func (s *fakeStore) GetParticipantByID(ctx context.Context, id string) (*entity.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	participant, ok := s.participants[id]
	if !ok {
		return nil, entity.ErrParticipantNotFound
	}
	copied := *participant
	return &copied, nil
}

func (s *fakeStore) GetParticipantsByEventID(ctx context.Context, eventID string) ([]*entity.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var participants []*entity.Participant
	for _, participant := range s.participants {
		if participant.EventID == eventID {
			copied := *participant
			participants = append(participants, &copied)
		}
	}
	return participants, nil
}

func (s *fakeStore) GetByReservationID(ctx context.Context, reservationID string) ([]*entity.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var participants []*entity.Participant
	for _, participant := range s.participants {
		if participant.ReservationID == reservationID {
			copied := *participant
			participants = append(participants, &copied)
		}
	}
	return participants, nil
}

func (s *fakeStore) FindByEventAndEmails(ctx context.Context, eventID string, emails []string) ([]*entity.Participant, error) {
	s.findEmailCalls++
	if s.failFindByEventAndEmail != nil {
		return nil, s.failFindByEventAndEmail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(emails))
	for _, email := range emails {
		wanted[email] = true
	}
	var matches []*entity.Participant
	for _, participant := range s.participants {
		if participant.EventID == eventID && wanted[participant.Email] {
			copied := *participant
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

// Interface adapters: the fake exposes differently named methods where the
// three repository interfaces would otherwise collide on method names.

type fakeEventRepo struct{ *fakeStore }

type fakeRegistrationRepo struct{ *fakeStore }

func (r fakeRegistrationRepo) Create(ctx context.Context, registration *entity.Registration) error {
	return r.CreateRegistration(ctx, registration)
}

func (r fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*entity.Registration, error) {
	return r.GetRegistrationByID(ctx, id)
}

func (r fakeRegistrationRepo) GetByEventID(ctx context.Context, eventID string) ([]*entity.Registration, error) {
	return r.GetRegistrationsByEventID(ctx, eventID)
}

type fakeParticipantRepo struct{ *fakeStore }

func (r fakeParticipantRepo) GetByID(ctx context.Context, id string) (*entity.Participant, error) {
	return r.GetParticipantByID(ctx, id)
}

func (r fakeParticipantRepo) GetByEventID(ctx context.Context, eventID string) ([]*entity.Participant, error) {
	return r.GetParticipantsByEventID(ctx, eventID)
}

// fakePublisher records published notifications.
type fakePublisher struct {
	mu       sync.Mutex
	messages []*entity.NotificationMessage
	fail     error
}

func (p *fakePublisher) Publish(ctx context.Context, message *entity.NotificationMessage) error {
	if p.fail != nil {
		return p.fail
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

var errStoreDown = errors.New("store unavailable")

func boolPtr(b bool) *bool { return &b }

func validInput(email string) *ParticipantInput {
	return &ParticipantInput{
		Email:           email,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		WaiverAccepted:  boolPtr(true),
		NewsletterOptIn: boolPtr(false),
	}
}

// seedEvent stores an open event with the given capacity and returns it.
func seedEvent(store *fakeStore, regType entity.RegistrationType, max, current int) *entity.Event {
	event := &entity.Event{
		ID:                   newID(time.Now()),
		CreatorID:            newID(time.Now()),
		Title:                "Autumn 10K",
		MaxParticipants:      max,
		CurrentParticipants:  current,
		Enabled:              true,
		RegistrationDeadline: time.Now().Add(48 * time.Hour),
		RegistrationFee:      100,
		RegistrationType:     regType,
	}
	store.events[event.ID] = event
	return event
}
