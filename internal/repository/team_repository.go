package repository

import (
	"context"
	"errors"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindIDsByMember(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	List(ctx context.Context, teamIDs []primitive.ObjectID, page, limit int) ([]models.Team, int, error)
	Update(ctx context.Context, team *models.Team) error
	AddMember(ctx context.Context, teamID, userID primitive.ObjectID) (*models.Team, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// teamRepository implements TeamRepository using MongoDB.
type teamRepository struct {
	collection *mongo.Collection
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(db *mongo.Database) TeamRepository {
	return &teamRepository{
		collection: db.Collection("teams"),
	}
}

// Create inserts a new team into the database.
func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	team.ID = primitive.NewObjectID()
	team.CreatedAt = time.Now()
	team.UpdatedAt = time.Now()

	if team.Members == nil {
		team.Members = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, team)
	return err
}

// FindByID retrieves a team by ID.
func (r *teamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// FindIDsByMember returns the ids of every team the user belongs to.
func (r *teamRepository) FindIDsByMember(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"members": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// List returns a page of teams, newest first. A nil teamIDs lists every team;
// a non-nil slice restricts the result to those ids.
func (r *teamRepository) List(ctx context.Context, teamIDs []primitive.ObjectID, page, limit int) ([]models.Team, int, error) {
	filter := bson.M{}
	if teamIDs != nil {
		filter["_id"] = bson.M{"$in": teamIDs}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, 0, err
	}

	if teams == nil {
		teams = []models.Team{}
	}

	return teams, int(total), nil
}

// Update writes a team's name and description.
func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        team.Name,
			"description": team.Description,
			"updatedAt":   team.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": team.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}

// AddMember adds userID to the team's member set and returns the updated
// team. The update only matches while the user is absent, so of two
// concurrent adds exactly one succeeds and the other gets ErrAlreadyMember.
func (r *teamRepository) AddMember(ctx context.Context, teamID, userID primitive.ObjectID) (*models.Team, error) {
	filter := bson.M{
		"_id":     teamID,
		"members": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var team models.Team
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&team)
	if err == nil {
		return &team, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: either the team is gone or the user is already in it.
	if _, err := r.FindByID(ctx, teamID); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrAlreadyMember
}

// Delete removes a team.
func (r *teamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}
