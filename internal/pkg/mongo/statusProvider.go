package mongo

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
)

// StatusProvider provides job status from mongo db
type StatusProvider struct {
	SessionProvider *SessionProvider
	results         *ResultSaver
}

//NewStatusProvider creates StatusProvider instance
func NewStatusProvider(sessionProvider *SessionProvider) (*StatusProvider, error) {
	results, err := NewResultSaver(sessionProvider)
	if err != nil {
		return nil, err
	}
	f := StatusProvider{SessionProvider: sessionProvider, results: results}
	return &f, nil
}

// Get retrieves status from DB. Returns nil for unknown ID
func (sp *StatusProvider) Get(id string) (*reconcile.Payload, error) {
	cmdapp.Log.Infof("Retrieving status %s", id)

	c, ctx, cancel, err := newColl(sp.SessionProvider, statusTable)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var m bson.M
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&m)
	if err == mgo.ErrNoDocuments {
		cmdapp.Log.Infof("ID not found %s", id)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "can't get status record")
	}

	result := reconcile.Payload{ID: id}
	if st, ok := m["status"].(string); ok {
		result.Status = st
	}
	if errorStr, ok := m["error"].(string); ok {
		result.Error = errorStr
	}
	if status.From(result.Status) == status.Completed {
		payload, err := sp.results.Get(id)
		if err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			result.Result = json.RawMessage(payload)
		}
	}
	return &result, nil
}
