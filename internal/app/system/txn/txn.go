// Package txn runs a function inside a MongoDB multi-document transaction,
// falling back to plain execution on deployments that cannot support one
// (standalone servers, some DocumentDB versions).
//
// The fallback keeps local development on a standalone mongod working; in
// production against a replica set the callback gets real transactional
// semantics, which the coach-assignment write path relies on for its
// check-then-insert sequence.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. If the server rejects
// sessions or transactions outright, fn is re-run once without a transaction
// and a warning is logged.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warnFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warnFallback(log, err)
		return fn(ctx)
	}
	return err
}

func warnFallback(log *zap.Logger, err error) {
	if log != nil {
		log.Warn("transactions unsupported; running without transaction", zap.Error(err))
	}
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions at all (as opposed to a transient or application error).
//
// Detection is best-effort: known command error codes first, then keyword
// pairs for servers that only return text.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			// IllegalOperation variants raised on standalone servers.
			return true
		}
		return containsTxnKeywords(ce.Message)
	}

	return containsTxnKeywords(err.Error())
}

func containsTxnKeywords(msg string) bool {
	s := strings.ToLower(msg)
	switch {
	case strings.Contains(s, "illegal operation"):
		return true
	case strings.Contains(s, "transaction") && strings.Contains(s, "replica set"):
		return true
	case strings.Contains(s, "transaction") && strings.Contains(s, "session"):
		return true
	case strings.Contains(s, "session") && strings.Contains(s, "not supported"):
		return true
	}
	return false
}
