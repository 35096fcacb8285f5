package mongo

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
)

//IndexData keeps index creation data
type IndexData struct {
	Table  string
	Field  string
	Unique bool
}

func newIndexData(table string, field string, unique bool) IndexData {
	return IndexData{Table: table, Field: field, Unique: unique}
}

//SessionProvider connects and provides sessions for mongo DB
type SessionProvider struct {
	client  *mgo.Client
	URL     string
	indexes []IndexData
	m       sync.Mutex // struct field mutex
}

//NewSessionProvider creates Mongo session provider
func NewSessionProvider() (*SessionProvider, error) {
	url := cmdapp.Config.GetString("mongo.url")
	if url == "" {
		return nil, errors.New("no mongo url provided")
	}
	return &SessionProvider{URL: url, indexes: indexData}, nil
}

//Close closes mongo connection
func (sp *SessionProvider) Close() {
	if sp.client != nil {
		_ = sp.client.Disconnect(context.Background())
	}
}

//NewSession creates mongo session
func (sp *SessionProvider) NewSession() (mgo.Session, error) {
	sp.m.Lock()
	defer sp.m.Unlock()

	if sp.client == nil {
		cmdapp.Log.Info("Dial mongo: " + hidePass(sp.URL))
		ctx, cancel := mongoContext()
		defer cancel()
		client, err := mgo.Connect(ctx, options.Client().ApplyURI(sp.URL))
		if err != nil {
			return nil, errors.Wrap(err, "can't dial to mongo")
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, errors.Wrap(err, "can't ping mongo")
		}
		if err := checkIndexes(ctx, client, sp.indexes); err != nil {
			return nil, errors.Wrap(err, "can't create indexes")
		}
		sp.client = client
	}
	return sp.client.StartSession()
}

//Healthy checks the mongo connection
func (sp *SessionProvider) Healthy() error {
	session, err := sp.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())
	ctx, cancel := mongoContext()
	defer cancel()
	return session.Client().Ping(ctx, nil)
}

func checkIndexes(ctx context.Context, client *mgo.Client, indexes []IndexData) error {
	for _, index := range indexes {
		if err := checkIndex(ctx, client, index); err != nil {
			return errors.Wrap(err, "can't create index: "+index.Table+":"+index.Field)
		}
	}
	return nil
}

func checkIndex(ctx context.Context, client *mgo.Client, indexData IndexData) error {
	c := client.Database(store).Collection(indexData.Table)
	_, err := c.Indexes().CreateOne(ctx, mgo.IndexModel{
		Keys:    bson.D{{Key: indexData.Field, Value: 1}},
		Options: options.Index().SetUnique(indexData.Unique).SetSparse(true),
	})
	return err
}

func newColl(sp *SessionProvider, table string) (*mgo.Collection, context.Context, context.CancelFunc, error) {
	session, err := sp.NewSession()
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancelCtx := mongoContext()
	cancel := func() {
		cancelCtx()
		session.EndSession(context.Background())
	}
	return session.Client().Database(store).Collection(table), ctx, cancel, nil
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "$", "")
}

func hidePass(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		cmdapp.Log.Warn("Can't parse mongo url.")
		return ""
	}
	_, ps := u.User.Password()
	if ps {
		u.User = url.UserPassword(u.User.Username(), "----")
	}
	return u.String()
}
