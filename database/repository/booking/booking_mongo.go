package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"carwash/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo keeps the relational shape in three collections linked by
// schedule_id. Writes run in a multi-document transaction, so the server must be a
// replica set.
type MongoBookingRepo struct {
	scheduleColl *mongo.Collection
	carColl      *mongo.Collection
	dateColl     *mongo.Collection
}

func NewMongoBookingRepo(ctx context.Context, db *mongo.Database) (BookingRepository, error) {
	repo := &MongoBookingRepo{
		scheduleColl: db.Collection("schedules"),
		carColl:      db.Collection("car_details"),
		dateColl:     db.Collection("scheduled_dates"),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *MongoBookingRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := repo.scheduleColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}
	if _, err := repo.carColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "schedule_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create car details indexes: %w", err)
	}
	if _, err := repo.dateColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "position", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create scheduled date indexes: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, w ScheduleWriter) error) error {
	client := repo.scheduleColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := fn(sc, &mongoScheduleWriter{repo: repo}); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		if err := sc.CommitTransaction(sc); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// mongoScheduleWriter must be called with the session context handed to the
// WithinTx callback.
type mongoScheduleWriter struct {
	repo *MongoBookingRepo
}

func (w *mongoScheduleWriter) InsertSchedule(ctx context.Context, s *models.Schedule) error {
	if _, err := w.repo.scheduleColl.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert schedule failed: %w", err)
	}
	return nil
}

func (w *mongoScheduleWriter) InsertCarDetails(ctx context.Context, c *models.CarDetails) error {
	if _, err := w.repo.carColl.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert car details failed: %w", err)
	}
	return nil
}

func (w *mongoScheduleWriter) AttachCar(ctx context.Context, scheduleID, carID string) error {
	res, err := w.repo.scheduleColl.UpdateOne(ctx,
		bson.M{"id": scheduleID},
		bson.M{"$set": bson.M{"car_id": carID}})
	if err != nil {
		return fmt.Errorf("attach car failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("attach car failed: schedule %s not found", scheduleID)
	}
	return nil
}

func (w *mongoScheduleWriter) InsertScheduledDates(ctx context.Context, scheduleID string, dates []models.ScheduledDate) error {
	if len(dates) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(dates))
	for i, d := range dates {
		d.ScheduleID = scheduleID
		d.Position = i
		docs = append(docs, d)
	}
	if _, err := w.repo.dateColl.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert scheduled dates failed: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) ListSchedulesByUser(ctx context.Context, userID string) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := repo.scheduleColl.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	schedules := []models.Schedule{}
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	if len(schedules) == 0 {
		return schedules, nil
	}

	ids := make([]string, 0, len(schedules))
	index := make(map[string]*models.Schedule, len(schedules))
	for i := range schedules {
		schedules[i].Dates = []models.ScheduledDate{}
		ids = append(ids, schedules[i].ID)
		index[schedules[i].ID] = &schedules[i]
	}

	carCursor, err := repo.carColl.Find(ctx, bson.M{"schedule_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query car details: %w", err)
	}
	var cars []models.CarDetails
	if err := carCursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode car details: %w", err)
	}
	for i := range cars {
		if s, ok := index[cars[i].ScheduleID]; ok {
			car := cars[i]
			s.Car = &car
		}
	}

	dateCursor, err := repo.dateColl.Find(ctx, bson.M{"schedule_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "schedule_id", Value: 1}, {Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled dates: %w", err)
	}
	var dates []models.ScheduledDate
	if err := dateCursor.All(ctx, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled dates: %w", err)
	}
	for _, d := range dates {
		if s, ok := index[d.ScheduleID]; ok {
			s.Dates = append(s.Dates, d)
		}
	}
	return schedules, nil
}
