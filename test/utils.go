package test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"aistylist/models"
	"aistylist/services"

	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewRefString(data string) *string {
	return &data
}

func FakeUser(db *gorm.DB, email string) *models.UserAccount {
	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:     "OurName",
		Email:    email,
		Location: "Vancouver",
	}
	db.Create(user)
	return user
}

// FakeClothing stores a described item straight through gorm.
func FakeClothing(db *gorm.DB, owner *models.UserAccount, description string) *models.Clothing {
	item := &models.Clothing{
		Name:             description,
		OwnerID:          owner.ID,
		ProcessingStatus: models.ProcessingCompleted,
	}
	if description != "" {
		item.Description = &description
	} else {
		item.ProcessingStatus = models.ProcessingPending
	}
	db.Create(item)
	return item
}

type PutCall struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

type AWSProviderMock struct {
	mu      sync.Mutex
	Puts    []PutCall
	PutErr  error
	MockUrl string
}

func (m *AWSProviderMock) InitClient(ctx context.Context) error {
	return nil
}

func (m *AWSProviderMock) PutObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Puts = append(m.Puts, PutCall{Bucket: bucketName, Key: key, Body: body, ContentType: contentType})
	return nil
}

func (m *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return fmt.Sprintf("%s/%s/%s", m.MockUrl, bucketName, fileKey), nil
}

func (m *AWSProviderMock) PutCalls() []PutCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PutCall(nil), m.Puts...)
}

type WeatherServiceMock struct {
	Report services.WeatherReport
	Err    error
	Calls  int
}

func (m *WeatherServiceMock) Current(ctx context.Context, location string) (services.WeatherReport, error) {
	m.Calls++
	if m.Err != nil {
		return services.WeatherReport{}, m.Err
	}
	report := m.Report
	if report.Location == "" {
		report.Location = location
	}
	return report, nil
}

func (m *WeatherServiceMock) Forecast(ctx context.Context, location string, days int) ([]services.ForecastDay, error) {
	return []services.ForecastDay{}, m.Err
}
