package mongo

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

// ResultSaver saves the raw transcription payload to mongo db
type ResultSaver struct {
	SessionProvider *SessionProvider
}

//NewResultSaver creates ResultSaver instance
func NewResultSaver(sessionProvider *SessionProvider) (*ResultSaver, error) {
	f := ResultSaver{SessionProvider: sessionProvider}
	return &f, nil
}

// Save saves the pushed payload to DB
func (rs *ResultSaver) Save(id string, payload []byte) error {
	cmdapp.Log.Infof("Saving result %s. Size = %d", id, len(payload))

	c, ctx, cancel, err := newColl(rs.SessionProvider, resultTable)
	if err != nil {
		return err
	}
	defer cancel()

	return c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(id)},
		bson.M{"$set": bson.M{"payload": string(payload)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Err()
}

//Get returns the saved payload by ID, nil if none
func (rs *ResultSaver) Get(id string) ([]byte, error) {
	c, ctx, cancel, err := newColl(rs.SessionProvider, resultTable)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var m bson.M
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&m)
	if err == mgo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "can't get result record")
	}
	payload, _ := m["payload"].(string)
	return []byte(payload), nil
}
