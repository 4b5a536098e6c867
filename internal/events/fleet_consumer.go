package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/kafka"
)

// MaintenanceSetter moves a vehicle in or out of maintenance. Implemented by
// the vehicle application service.
type MaintenanceSetter interface {
	SetMaintenance(ctx context.Context, vehicleID uuid.UUID, inMaintenance bool, reason string) error
}

// FleetEventConsumer listens to fleet-ops events and mirrors maintenance
// state onto the local vehicle records.
type FleetEventConsumer struct {
	consumer *kafka.Consumer
	service  MaintenanceSetter
	logger   *zap.Logger
}

// NewFleetEventConsumer creates a new FleetEventConsumer.
func NewFleetEventConsumer(
	brokers []string,
	groupID string,
	service MaintenanceSetter,
	logger *zap.Logger,
) *FleetEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicFleetEvents, logger)
	return &FleetEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming fleet events. This blocks until the context is cancelled.
func (c *FleetEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FleetEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FleetEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from fleet topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case MaintenanceStarted:
		return c.handleMaintenanceStarted(ctx, cloudEvent)
	case MaintenanceEnded:
		return c.handleMaintenanceEnded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled fleet event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *FleetEventConsumer) handleMaintenanceStarted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt MaintenanceStartedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse MaintenanceStartedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing maintenance started event",
		zap.String("vehicle_id", evt.VehicleID.String()),
		zap.String("reason", evt.Reason),
	)

	if err := c.service.SetMaintenance(ctx, evt.VehicleID, true, evt.Reason); err != nil {
		c.logger.Error("failed to move vehicle into maintenance",
			zap.String("vehicle_id", evt.VehicleID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *FleetEventConsumer) handleMaintenanceEnded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt MaintenanceEndedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse MaintenanceEndedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing maintenance ended event",
		zap.String("vehicle_id", evt.VehicleID.String()),
	)

	if err := c.service.SetMaintenance(ctx, evt.VehicleID, false, ""); err != nil {
		c.logger.Error("failed to return vehicle to service",
			zap.String("vehicle_id", evt.VehicleID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
