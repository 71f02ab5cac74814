package xcontext

import (
	"context"

	"github.com/plumehq/backend/config"
	"github.com/plumehq/backend/internal/model"
	"github.com/plumehq/backend/pkg/authenticator"
	"github.com/plumehq/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey          struct{}
	dbTxKey        struct{}
	configsKey     struct{}
	loggerKey      struct{}
	tokenEngineKey struct{}
	userIDKey      struct{}
)

// dbTransaction wraps the transactional gorm.DB so that commit and
// rollback helpers called through different copies of the context
// still observe the same state.
type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current gorm.DB. If a transaction was opened with
// WithDBTransaction and is still in-flight, the transaction is
// returned instead of the root connection.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		return tx.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

// WithDBTransaction begins a database transaction and stores it in the
// returned context. Every DB(ctx) call through that context uses the
// transaction until commit or rollback.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the in-flight transaction if any.
func WithCommitDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}
}

// WithRollbackDBTransaction rollbacks the in-flight transaction. It is
// a no-op after WithCommitDBTransaction, so it is safe to defer.
func WithRollbackDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("no logger in context")
	}

	return l
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		panic("no token engine in context")
	}

	return engine
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
