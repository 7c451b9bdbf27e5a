package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/recipify/internal/core/domain"
)

// GraphRepo stocke le graphe social dans Neo4j :
// (a:User)-[:FOLLOWS {created_at}]->(b:User).
type GraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewGraphRepo(driver neo4j.DriverWithContext) *GraphRepo {
	return &GraphRepo{driver: driver}
}

// EnsureSchema crée les contraintes pour que les lookups par ID soient O(1).
func (r *GraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Contrainte d'unicité sur User.id (crée aussi un index)
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

func (r *GraphRepo) CreateRelation(ctx context.Context, followerID, followeeID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MERGE est idempotent : crée les noeuds s'ils n'existent pas,
		// crée la flèche si elle n'existe pas. Au plus un lien par paire.
		query := `
			MERGE (a:User {id: $followerId})
			MERGE (b:User {id: $followeeId})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"followerId": followerID,
			"followeeId": followeeID,
		})
		return nil, err
	})
	return err
}

func (r *GraphRepo) DeleteRelation(ctx context.Context, followerID, followeeID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:User {id: $followerId})-[r:FOLLOWS]->(b:User {id: $followeeId})
			DELETE r
		`
		_, err := tx.Run(ctx, query, map[string]any{"followerId": followerID, "followeeId": followeeID})
		return nil, err
	})
	return err
}

func (r *GraphRepo) GetRelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Une seule requête pour checker les deux sens
		query := `
			OPTIONAL MATCH (a:User {id: $actorId})
			OPTIONAL MATCH (b:User {id: $targetId})
			RETURN a IS NOT NULL AND b IS NOT NULL AND EXISTS((a)-[:FOLLOWS]->(b)) AS following,
			       a IS NOT NULL AND b IS NOT NULL AND EXISTS((b)-[:FOLLOWS]->(a)) AS followedBy
		`
		res, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		if err != nil {
			return nil, err
		}

		if res.Next(ctx) {
			rec := res.Record()
			following, _ := rec.Get("following")
			followedBy, _ := rec.Get("followedBy")
			return &domain.RelationStatus{
				IsFollowing:  following.(bool),
				IsFollowedBy: followedBy.(bool),
			}, nil
		}
		// Aucun noeud trouvé : false/false
		return &domain.RelationStatus{}, nil
	})

	if err != nil {
		return nil, err
	}
	return result.(*domain.RelationStatus), nil
}

// FollowerIDs : qui suit userID, ordre stable d'ancienneté du lien.
func (r *GraphRepo) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		MATCH (u:User {id: $userId})<-[r:FOLLOWS]-(f:User)
		RETURN f.id AS id
		ORDER BY r.created_at ASC, f.id ASC
	`
	return r.collectIDs(ctx, query, userID)
}

// FolloweeIDs : qui userID suit, même ordre stable.
func (r *GraphRepo) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		MATCH (u:User {id: $userId})-[r:FOLLOWS]->(f:User)
		RETURN f.id AS id
		ORDER BY r.created_at ASC, f.id ASC
	`
	return r.collectIDs(ctx, query, userID)
}

func (r *GraphRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	query := `MATCH (:User {id: $userId})<-[:FOLLOWS]-(f:User) RETURN count(f) AS n`
	return r.count(ctx, query, userID)
}

func (r *GraphRepo) CountFollowees(ctx context.Context, userID string) (int, error) {
	query := `MATCH (:User {id: $userId})-[:FOLLOWS]->(f:User) RETURN count(f) AS n`
	return r.count(ctx, query, userID)
}

// MutualWith : pour un lot de propriétaires, lesquels sont en follow mutuel
// avec viewer — UNE requête pour tout le check 'friends' du pipeline.
func (r *GraphRepo) MutualWith(ctx context.Context, viewerID string, ownerIDs []string) (map[string]bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (v:User {id: $viewerId})-[:FOLLOWS]->(o:User)
			WHERE o.id IN $ownerIds AND EXISTS((o)-[:FOLLOWS]->(v))
			RETURN o.id AS id
		`
		res, err := tx.Run(ctx, query, map[string]any{"viewerId": viewerID, "ownerIds": ownerIDs})
		if err != nil {
			return nil, err
		}

		mutual := make(map[string]bool, len(ownerIDs))
		for res.Next(ctx) {
			id, _ := res.Record().Get("id")
			mutual[id.(string)] = true
		}
		return mutual, res.Err()
	})

	if err != nil {
		return nil, err
	}
	return result.(map[string]bool), nil
}

// --- HELPERS ---

func (r *GraphRepo) collectIDs(ctx context.Context, query, userID string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}

		var ids []string
		for res.Next(ctx) {
			id, _ := res.Record().Get("id")
			ids = append(ids, id.(string))
		}
		return ids, res.Err()
	})

	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (r *GraphRepo) count(ctx context.Context, query, userID string) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			n, _ := res.Record().Get("n")
			return int(n.(int64)), nil
		}
		return 0, res.Err()
	})

	if err != nil {
		return 0, err
	}
	return result.(int), nil
}
