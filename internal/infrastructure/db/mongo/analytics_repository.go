package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/clinic-system/internal/core/ports"
)

// AnalyticsRepository runs the reporting aggregation pipelines against the
// appointments collection.
type AnalyticsRepository struct {
	col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{col: db.Collection(collectionAppointments)}
}

// periodFormats maps period names to Mongo $dateToString formats.
var periodFormats = map[string]string{
	"day":   "%Y-%m-%d",
	"week":  "%Y-W%V",
	"month": "%Y-%m",
}

// CountByPeriod groups appointments by calendar bucket, most recent first.
func (r *AnalyticsRepository) CountByPeriod(ctx context.Context, period string, limit int) ([]ports.PeriodCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	format := periodFormats[period]

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: format},
					{Key: "date", Value: "$date"},
				}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ports.PeriodCount
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, ports.PeriodCount{Period: row.ID, Count: row.Count})
	}
	return out, cur.Err()
}

// CountByStatus returns the appointment count per status, largest first.
func (r *AnalyticsRepository) CountByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ports.StatusCount
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, ports.StatusCount{Status: row.ID, Count: row.Count})
	}
	return out, cur.Err()
}

// NoShowStats counts appointments and no-shows over an optional date range.
func (r *AnalyticsRepository) NoShowStats(ctx context.Context, from, to time.Time) (*ports.NoShowStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}

	if !from.IsZero() || !to.IsZero() {
		dateRange := bson.D{}
		if !from.IsZero() {
			dateRange = append(dateRange, bson.E{Key: "$gte", Value: from.UTC()})
		}
		if !to.IsZero() {
			dateRange = append(dateRange, bson.E{Key: "$lte", Value: to.UTC()})
		}
		pipeline = append(pipeline, bson.D{
			{Key: "$match", Value: bson.D{{Key: "date", Value: dateRange}}},
		})
	}

	pipeline = append(pipeline, bson.D{
		{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "noShows", Value: bson.D{
				{Key: "$sum", Value: bson.D{
					{Key: "$cond", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$status", "no-show"}}}, 1, 0,
					}},
				}},
			}},
		}},
	})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return &ports.NoShowStats{}, nil
	}

	var row struct {
		Total   int64 `bson:"total"`
		NoShows int64 `bson:"noShows"`
	}
	if err := cur.Decode(&row); err != nil {
		return nil, err
	}
	return &ports.NoShowStats{Total: row.Total, NoShows: row.NoShows}, nil
}
