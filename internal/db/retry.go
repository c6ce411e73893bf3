package db

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

const DefaultMaxRetries = 3

// Try executes an operation, retrying transient duplicate-key collisions
// with DefaultMaxRetries attempts.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries)
}

// WithRetries executes an operation up to maxRetries additional times
// when the failure is a duplicate-key error. Any other error aborts
// immediately.
func WithRetries(op Operation, maxRetries int) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		if IsDuplicateKeyError(err) {
			// Simple incremental backoff before the next attempt.
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
		} else {
			return err
		}
	}
	return err
}

// IsDuplicateKeyOn reports whether err is a duplicate-key error whose
// colliding index covers the named field. The server embeds the index
// name in the write error message ("index: mobileNo_1 dup key").
func IsDuplicateKeyOn(err error, field string) bool {
	if !IsDuplicateKeyError(err) {
		return false
	}
	return strings.Contains(err.Error(), "index: "+field)
}

// IsDuplicateKeyError checks if an error from MongoDB is a duplicate key
// error (code 11000), in either a plain or bulk write exception.
func IsDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
