package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/geo"
)

type MockGeolocationService struct {
	mock.Mock
}

func (m *MockGeolocationService) HospitalFeatures(ctx context.Context, center geo.Coordinate) (*geo.FeatureCollection, error) {
	args := m.Called(ctx, center)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.FeatureCollection), args.Error(1)
}

func (m *MockGeolocationService) Nearby(ctx context.Context, origin geo.Coordinate) (*services.NearbyFacilities, error) {
	args := m.Called(ctx, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NearbyFacilities), args.Error(1)
}

func (m *MockGeolocationService) NearbyPreset(ctx context.Context, city string) (*services.NearbyFacilities, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.NearbyFacilities), args.Error(1)
}

func (m *MockGeolocationService) ReverseGeocode(ctx context.Context, point geo.Coordinate) (*providers.Address, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Address), args.Error(1)
}

func (m *MockGeolocationService) LocateIP(ctx context.Context, ip string) (*providers.IPLocation, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.IPLocation), args.Error(1)
}

func (m *MockGeolocationService) Locations() []entities.NamedLocation {
	args := m.Called()
	return args.Get(0).([]entities.NamedLocation)
}

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Departments() []entities.Department {
	args := m.Called()
	return args.Get(0).([]entities.Department)
}

func (m *MockAppointmentService) Book(ctx context.Context, userID string, req services.AppointmentRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Reschedule(ctx context.Context, userID, id string, req services.AppointmentRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Complete(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Get(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, userID string) (*services.AppointmentList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AppointmentList), args.Error(1)
}

func (m *MockAppointmentService) Consultation(ctx context.Context, userID, id string) (*entities.Consultation, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Consultation), args.Error(1)
}

type MockMedicalRecordService struct {
	mock.Mock
}

func (m *MockMedicalRecordService) GetRecord(ctx context.Context, userID string) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordService) SaveProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error) {
	args := m.Called(ctx, userID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalRecord), args.Error(1)
}

func (m *MockMedicalRecordService) AddMetric(ctx context.Context, userID string, req services.MetricRequest) (*entities.HealthMetricReading, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HealthMetricReading), args.Error(1)
}

func (m *MockMedicalRecordService) UploadReport(ctx context.Context, userID string, upload services.ReportUpload) (*entities.MedicalReport, error) {
	args := m.Called(ctx, userID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MedicalReport), args.Error(1)
}

func (m *MockMedicalRecordService) ReportURL(ctx context.Context, userID, reportID string) (string, error) {
	args := m.Called(ctx, userID, reportID)
	return args.String(0), args.Error(1)
}

func (m *MockMedicalRecordService) Summary(ctx context.Context, userID string) ([]entities.MetricSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.MetricSummary), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Send(ctx context.Context, sessionID, message string) (*services.ChatReply, error) {
	args := m.Called(ctx, sessionID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ChatReply), args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, sessionID string) []entities.ChatMessage {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]entities.ChatMessage)
}
