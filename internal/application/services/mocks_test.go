package services_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/domain/repositories"
	"github.com/arogyavritti/backend/pkg/geo"
)

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) NearbyHospitals(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error) {
	args := m.Called(ctx, center)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.FeatureCollection), args.Error(1)
}

func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*providers.Address, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Address), args.Error(1)
}

func (m *MockGeolocationProvider) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.IPLocation), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) GetByUser(ctx context.Context, userID string) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) UpsertProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordRepository) AppendMetric(ctx context.Context, userID string, reading entities.HealthMetricReading) error {
	args := m.Called(ctx, userID, reading)
	return args.Error(0)
}

func (m *MockMedicalRecordRepository) AppendReport(ctx context.Context, userID string, report entities.MedicalReport) error {
	args := m.Called(ctx, userID, report)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

type MockChatProvider struct {
	mock.Mock
}

func (m *MockChatProvider) Reply(ctx context.Context, systemPrompt string, history []entities.ChatMessage, message string) (string, error) {
	args := m.Called(ctx, systemPrompt, history, message)
	return args.String(0), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.AppointmentEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}
