package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchLimit caps the number of tasks returned by a text search.
const SearchLimit = 50

// TaskQuery selects and orders tasks. A nil TeamIDs applies no team
// restriction; a non-nil empty slice matches nothing.
type TaskQuery struct {
	TeamIDs    []primitive.ObjectID
	Status     models.TaskStatus
	Priority   models.TaskPriority
	AssignedTo *primitive.ObjectID
	CreatedBy  *primitive.ObjectID
	DueBefore  *time.Time
	DueAfter   *time.Time
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Find(ctx context.Context, q TaskQuery) ([]models.Task, int, error)
	Search(ctx context.Context, teamIDs []primitive.ObjectID, text string) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTeamID(ctx context.Context, teamID primitive.ObjectID) (int64, error)
	Stats(ctx context.Context, teamIDs []primitive.ObjectID) (*models.TaskStats, error)
}

// taskRepository implements TaskRepository using MongoDB.
type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &taskRepository{
		collection: db.Collection("tasks"),
	}
}

// Create inserts a new task into the database.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindByID retrieves a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// teamFilter adds the team restriction to filter.
func teamFilter(filter bson.M, teamIDs []primitive.ObjectID) {
	if teamIDs != nil {
		filter["teamId"] = bson.M{"$in": teamIDs}
	}
}

// Find returns a page of tasks matching q.
func (r *taskRepository) Find(ctx context.Context, q TaskQuery) ([]models.Task, int, error) {
	filter := bson.M{}
	teamFilter(filter, q.TeamIDs)
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.AssignedTo != nil {
		filter["assignedTo"] = *q.AssignedTo
	}
	if q.CreatedBy != nil {
		filter["createdBy"] = *q.CreatedBy
	}
	if q.DueBefore != nil || q.DueAfter != nil {
		due := bson.M{}
		if q.DueBefore != nil {
			due["$lte"] = *q.DueBefore
		}
		if q.DueAfter != nil {
			due["$gte"] = *q.DueAfter
		}
		filter["dueDate"] = due
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}
	skip := (q.Page - 1) * q.Limit
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}, {Key: "_id", Value: order}}).
		SetSkip(int64(skip)).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, int(total), nil
}

// Search returns up to SearchLimit tasks whose title or description contains
// text, case-insensitively, newest first.
func (r *taskRepository) Search(ctx context.Context, teamIDs []primitive.ObjectID, text string) ([]models.Task, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		},
	}
	teamFilter(filter, teamIDs)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(SearchLimit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Update writes every mutable field of task.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"priority":    task.Priority,
		"teamId":      task.TeamID,
		"updatedAt":   task.UpdatedAt,
	}
	unset := bson.M{}
	if task.AssignedTo != nil {
		set["assignedTo"] = *task.AssignedTo
	} else {
		unset["assignedTo"] = ""
	}
	if task.DueDate != nil {
		set["dueDate"] = *task.DueDate
	} else {
		unset["dueDate"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// DeleteByTeamID removes every task of a team and returns how many were removed.
func (r *taskRepository) DeleteByTeamID(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"teamId": teamID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

type bucket struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

// Stats counts tasks by status, priority and team in one aggregation.
func (r *taskRepository) Stats(ctx context.Context, teamIDs []primitive.ObjectID) (*models.TaskStats, error) {
	match := bson.M{}
	teamFilter(match, teamIDs)

	countBy := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.M{
			"total":      bson.A{bson.M{"$count": "count"}},
			"byStatus":   countBy("status"),
			"byPriority": countBy("priority"),
			"byTeam": bson.A{
				bson.M{"$group": bson.M{"_id": "$teamId", "count": bson.M{"$sum": 1}}},
				bson.M{"$lookup": bson.M{
					"from":         "teams",
					"localField":   "_id",
					"foreignField": "_id",
					"as":           "team",
				}},
				bson.M{"$project": bson.M{
					"count":    1,
					"teamName": bson.M{"$ifNull": bson.A{bson.M{"$first": "$team.name"}, ""}},
				}},
				bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		ByStatus   []bucket               `bson:"byStatus"`
		ByPriority []bucket               `bson:"byPriority"`
		ByTeam     []models.TeamTaskCount `bson:"byTeam"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	stats := models.NewTaskStats()
	if len(results) == 0 {
		return stats, nil
	}

	res := results[0]
	if len(res.Total) > 0 {
		stats.Total = res.Total[0].Count
	}
	for _, b := range res.ByStatus {
		stats.ByStatus[models.TaskStatus(b.Key)] = b.Count
	}
	for _, b := range res.ByPriority {
		stats.ByPriority[models.TaskPriority(b.Key)] = b.Count
	}
	if res.ByTeam != nil {
		stats.ByTeam = res.ByTeam
	}
	return stats, nil
}
