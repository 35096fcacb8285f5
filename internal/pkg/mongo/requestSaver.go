package mongo

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/persistence"
)

// RequestSaver saves upload request to mongo db
type RequestSaver struct {
	SessionProvider *SessionProvider
}

//NewRequestSaver creates RequestSaver instance
func NewRequestSaver(sessionProvider *SessionProvider) (*RequestSaver, error) {
	f := RequestSaver{SessionProvider: sessionProvider}
	return &f, nil
}

// Save saves request to DB
func (ss *RequestSaver) Save(data *persistence.Request) error {
	cmdapp.Log.Infof("Saving request %s: %s", data.ID, data.File)

	c, ctx, cancel, err := newColl(ss.SessionProvider, requestTable)
	if err != nil {
		return err
	}
	defer cancel()

	return c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(data.ID)},
		bson.M{"$set": bson.M{"file": data.File, "s3Key": data.S3Key,
			"diarization": data.Diarization, "language": data.Language, "task": data.Task}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Err()
}

//Get returns request data by ID
func (ss *RequestSaver) Get(id string) (*persistence.Request, error) {
	c, ctx, cancel, err := newColl(ss.SessionProvider, requestTable)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var m persistence.Request
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&m)
	if err == mgo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "can't get request record")
	}
	return &m, nil
}
