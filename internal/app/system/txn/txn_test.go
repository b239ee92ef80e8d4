package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated error", errors.New("connection reset by peer"), false},
		{"standalone code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"standalone code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"standalone code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error code", mongo.CommandError{Code: 100, Message: "exceeded memory limit"}, false},
		{"text: transaction on non replica set", errors.New("transaction failed because this is not a replica set member"), true},
		{"text: sessions unsupported", errors.New("session operations are not supported on this server"), true},
		{"text: transaction in session", errors.New("cannot start transaction in current session state"), true},
		{"text: illegal operation", errors.New("illegal operation during transaction"), true},
		{"text: single keyword only", errors.New("transaction failed"), false},
		{"text: case folded", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
