// File: database/repository/appointment/queries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lexbook/models"
)

func (r *mongoAppointmentRepo) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"clientId": clientID})
}

func (r *mongoAppointmentRepo) ListByProviderAndDate(ctx context.Context, providerID, date string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"providerId": providerID, "date": date})
}

func (r *mongoAppointmentRepo) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{
		"status":    models.StatusPendingPayment,
		"createdAt": bson.M{"$lt": cutoff},
	})
}

func (r *mongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}
