package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"investchat-be/internal/dto"
	"investchat-be/pkg/geoip"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeoResolver struct {
	loc *geoip.Location
	err error
}

func (r *fakeGeoResolver) Lookup(ctx context.Context, ip string) (*geoip.Location, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.loc, nil
}

func loginMessage(t *testing.T, record dto.LoginRecordedMessage) *message.Message {
	t.Helper()
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestProcessMessageEnrichesAccessLog(t *testing.T) {
	uow := newFakeUnitOfWork()
	resolver := &fakeGeoResolver{loc: &geoip.Location{
		Country: "Brazil",
		Region:  "SP",
		City:    "São Paulo",
		ISP:     "Vivo",
	}}
	svc := &consumerService{
		topicName:   "LOGIN_RECORDED",
		uowFactory:  &fakeUowFactory{uow: uow},
		geoResolver: resolver,
	}

	userId := uuid.New()
	msg := loginMessage(t, dto.LoginRecordedMessage{
		UserId:     userId,
		IpAddress:  "203.0.113.7",
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		OccurredAt: time.Now(),
	})
	svc.processMessage(context.Background(), msg)

	require.Len(t, uow.accessLogs.logs, 1)
	logRow := uow.accessLogs.logs[0]
	assert.Equal(t, userId, logRow.UserId)
	assert.Equal(t, "203.0.113.7", logRow.IpAddress)
	assert.Equal(t, "Brazil", logRow.Country)
	assert.Equal(t, "São Paulo", logRow.City)
	assert.NotEmpty(t, logRow.Browser)
	assert.NotEmpty(t, logRow.OS)
}

func TestProcessMessageGeoFailureWritesPartialRow(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := &consumerService{
		topicName:   "LOGIN_RECORDED",
		uowFactory:  &fakeUowFactory{uow: uow},
		geoResolver: &fakeGeoResolver{err: errors.New("geo service down")},
	}

	msg := loginMessage(t, dto.LoginRecordedMessage{
		UserId:    uuid.New(),
		IpAddress: "198.51.100.4",
		UserAgent: "curl/8.0",
	})
	svc.processMessage(context.Background(), msg)

	// The row still lands, just without location fields
	require.Len(t, uow.accessLogs.logs, 1)
	assert.Empty(t, uow.accessLogs.logs[0].Country)
	assert.Equal(t, "198.51.100.4", uow.accessLogs.logs[0].IpAddress)
	// A zero OccurredAt falls back to the write time
	assert.False(t, uow.accessLogs.logs[0].CreatedAt.IsZero())
}

func TestProcessMessageBadPayloadAcked(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := &consumerService{
		topicName:  "LOGIN_RECORDED",
		uowFactory: &fakeUowFactory{uow: uow},
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	svc.processMessage(context.Background(), msg)

	assert.Empty(t, uow.accessLogs.logs)
	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected the malformed message to be acked")
	}
}
