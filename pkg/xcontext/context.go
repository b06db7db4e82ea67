package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/questbelief/backend/config"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/pkg/authenticator"
	"github.com/questbelief/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey          struct{}
	txKey          struct{}
	loggerKey      struct{}
	configsKey     struct{}
	userIDKey      struct{}
	httpRequestKey struct{}
	tokenEngineKey struct{}
	startTimeKey   struct{}
	errorKey       struct{}
	responseKey    struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. Inside a transaction started
// by WithDBTransaction it returns that transaction instead.
func DB(ctx context.Context) *gorm.DB {
	if holder := txHolder(ctx); holder != nil && !holder.done {
		return holder.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

func txHolder(ctx context.Context) *dbTransaction {
	holder, ok := ctx.Value(txKey{}).(*dbTransaction)
	if !ok {
		return nil
	}

	return holder
}

// WithDBTransaction begins a database transaction and makes DB(ctx)
// return it until the transaction is committed or rolled back. The
// usual pattern is:
//
//	ctx = xcontext.WithDBTransaction(ctx)
//	defer xcontext.WithRollbackDBTransaction(ctx)
//	...
//	xcontext.WithCommitDBTransaction(ctx)
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the pending transaction if it is
// still open.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if holder := txHolder(ctx); holder != nil && !holder.done {
		holder.tx.Commit()
		holder.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rolls the pending transaction back. It is
// a no-op after a commit, so it is safe to defer unconditionally.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder := txHolder(ctx); holder != nil && !holder.done {
		holder.tx.Rollback()
		holder.done = true
	}

	return ctx
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequestUserID returns the authenticated user of this request, or an
// empty string before the auth middleware ran.
func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return ctx.Value(httpRequestKey{}).(*http.Request)
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return time.Time{}
	}

	return t
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, ok := ctx.Value(errorKey{}).(error)
	if !ok {
		return nil
	}

	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}
