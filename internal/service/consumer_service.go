package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"investchat-be/internal/dto"
	"investchat-be/internal/entity"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/pkg/geoip"
	"investchat-be/pkg/useragent"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the login-recorded topic and persists access
// logs enriched with user agent and geolocation data. The whole path is
// best effort: a failed geo lookup still writes a partial row.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	geoResolver geoip.Resolver
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	geoResolver geoip.Resolver,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		geoResolver: geoResolver,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.LoginRecordedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal login record: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Recording access log for user %s", payload.UserId)

	info := useragent.Sniff(payload.UserAgent)

	accessLog := &entity.AccessLog{
		Id:        uuid.New(),
		UserId:    payload.UserId,
		IpAddress: payload.IpAddress,
		UserAgent: payload.UserAgent,
		Browser:   info.Browser,
		OS:        info.OS,
		Device:    info.Device,
		CreatedAt: payload.OccurredAt,
	}
	if accessLog.CreatedAt.IsZero() {
		accessLog.CreatedAt = time.Now()
	}

	if cs.geoResolver != nil {
		loc, err := cs.geoResolver.Lookup(ctx, payload.IpAddress)
		if err != nil {
			log.Printf("[WARN] Geo lookup failed for %s: %v", payload.IpAddress, err)
		} else if loc != nil {
			accessLog.Country = loc.Country
			accessLog.Region = loc.Region
			accessLog.City = loc.City
			accessLog.ISP = loc.ISP
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AccessLogRepository().Create(ctx, accessLog); err != nil {
		log.Printf("[ERROR] Failed to save access log for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
