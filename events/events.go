package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event names published on the domain channel.
const (
	LessonCompleted         = "lesson.completed"
	ModuleCompleted         = "module.completed"
	CourseCompleted         = "course.completed"
	ModuleCertificateIssued = "certificate.module.issued"
	CourseCertificateIssued = "certificate.course.issued"
)

// Event is a typed domain event. Consumers (websocket gateway, notification
// workers) subscribe to the channel and fan out; transport is not our concern.
type Event struct {
	Name         string    `json:"name"`
	UserID       uint      `json:"user_id"`
	EnrollmentID uint      `json:"enrollment_id,omitempty"`
	CourseID     uint      `json:"course_id,omitempty"`
	ModuleID     uint      `json:"module_id,omitempty"`
	LessonID     uint      `json:"lesson_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers domain events to interested consumers.
type Publisher interface {
	Publish(event Event) error
}

// Bus is the process-wide publisher, set up in main. Publish is safe to call
// when it was never initialized (events are then only logged).
var Bus Publisher

const channel = "youthhub.events"

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and returns a publisher bound to the
// domain event channel.
func NewRedisPublisher(addr, password string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

func (p *RedisPublisher) Publish(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return p.client.Publish(ctx, channel, payload).Err()
}

// Publish sends an event through the configured bus. Delivery is best effort;
// a failed publish is logged and never fails the caller's operation.
func Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if Bus == nil {
		log.Printf("[EVENT] %s user=%d enrollment=%d", event.Name, event.UserID, event.EnrollmentID)
		return
	}
	if err := Bus.Publish(event); err != nil {
		log.Printf("[EVENT] failed to publish %s: %v", event.Name, err)
	}
}
