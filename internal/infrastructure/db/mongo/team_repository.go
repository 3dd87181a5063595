package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

const (
	collectionTeams       = "teams"
	collectionTeamMembers = "team_members"
)

// TeamRepository persists teams and their membership rows. Memberships live
// in a dedicated collection keyed by (team_id, user_id).
type TeamRepository struct {
	teams   *mongo.Collection
	members *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{
		teams:   db.Collection(collectionTeams),
		members: db.Collection(collectionTeamMembers),
	}
}

// Create inserts a new team document, assigning an id when absent.
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if _, err := r.teams.InsertOne(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// FindByID retrieves a team by id.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Team
	err := r.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update replaces an existing team document.
func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	team.UpdatedAt = time.Now().UTC()
	res, err := r.teams.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

// Delete removes a team and all of its membership rows.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTeamNotFound
	}
	_, err = r.members.DeleteMany(ctx, bson.M{"team_id": id})
	return err
}

// ListByUser returns teams where the user is owner or member.
func (r *TeamRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	teamIDs, err := r.UserTeamIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(teamIDs) == 0 {
		return []*domain.Team{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.teams.Find(ctx, bson.M{"_id": bson.M{"$in": teamIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []*domain.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Count returns the total number of teams.
func (r *TeamRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.teams.CountDocuments(ctx, bson.M{})
}

// GetMember returns the membership row for (teamID, userID).
func (r *TeamRepository) GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.TeamMember
	err := r.members.FindOne(ctx, bson.M{"team_id": teamID, "user_id": userID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

// AddMember inserts a membership row. The unique (team_id, user_id) index
// turns a duplicate insert into domain.ErrAlreadyMember.
func (r *TeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	if _, err := r.members.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.members.DeleteOne(ctx, bson.M{"team_id": teamID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// UpdateMemberRole changes the role on an existing membership row.
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.members.UpdateOne(ctx,
		bson.M{"team_id": teamID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// ListMembers returns every membership row of a team, oldest first.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := r.members.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []*domain.TeamMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// UserTeamIDs returns the ids of every team the user belongs to, whether
// as owner or as member.
func (r *TeamRepository) UserTeamIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make(map[string]struct{})

	cur, err := r.members.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	var memberships []domain.TeamMember
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	for _, m := range memberships {
		ids[m.TeamID] = struct{}{}
	}

	ownedCur, err := r.teams.Find(ctx, bson.M{"owner_id": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var owned []struct {
		ID string `bson:"_id"`
	}
	if err := ownedCur.All(ctx, &owned); err != nil {
		return nil, err
	}
	for _, t := range owned {
		ids[t.ID] = struct{}{}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the teams and team_members
// collections.
func (r *TeamRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	teamIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}
	if _, err := r.teams.Indexes().CreateMany(ctx, teamIndexes); err != nil {
		return err
	}

	memberIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	_, err := r.members.Indexes().CreateMany(ctx, memberIndexes)
	return err
}
