package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

// Repository handles all Neo4j database operations. Logical writes run
// inside a single managed write transaction so a failed step never leaves
// partial state; reads use read sessions and accept read-committed results.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

func (r *Repository) readSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

func (r *Repository) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// isConstraintViolation reports whether err is a Neo4j uniqueness violation.
// The enclosing transaction has already rolled back when this is true.
func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if !errors.As(err, &neoErr) {
		return false
	}
	return strings.Contains(neoErr.Code, "ConstraintValidationFailed") ||
		strings.Contains(neoErr.Code, "ConstraintViolation")
}
