package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

// StatusSaver saves job status to mongo db
type StatusSaver struct {
	SessionProvider *SessionProvider
}

//NewStatusSaver creates StatusSaver instance
func NewStatusSaver(sessionProvider *SessionProvider) (*StatusSaver, error) {
	f := StatusSaver{SessionProvider: sessionProvider}
	return &f, nil
}

// Save saves status to DB
func (ss *StatusSaver) Save(id string, st string, errorStr string) error {
	cmdapp.Log.Infof("Saving status %s: %s (%s)", id, st, errorStr)

	c, ctx, cancel, err := newColl(ss.SessionProvider, statusTable)
	if err != nil {
		return err
	}
	defer cancel()

	return c.FindOneAndUpdate(ctx, bson.M{"ID": sanitize(id)},
		bson.M{"$set": bson.M{"status": st, "error": errorStr}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Err()
}
