package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/table"
)

// DefaultDatabase is used when Mongo.Database is empty.
const DefaultDatabase = "techflow"

// Mongo reads every document of a collection as one row.
//
// Columns are the document keys in first-seen order; "_id" is dropped.
// Values are converted to strings: arrays are joined with ", " so a list of
// carriers reads like the sheet's comma-separated cells.
type Mongo struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // connect and query timeout; 0 means 30s
}

// Load connects, reads the collection and disconnects.
func (m *Mongo) Load(ctx context.Context) (*table.Table, error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	defer client.Disconnect(context.Background())

	db := m.Database
	if db == "" {
		db = DefaultDatabase
	}
	cur, err := client.Database(db).Collection(m.Collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s.%s", db, m.Collection)
	}
	defer cur.Close(ctx)

	var docs []bson.D
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s.%s", db, m.Collection)
	}
	return documentsToTable(docs), nil
}

func (m *Mongo) String() string {
	return fmt.Sprintf("mongo:%s/%s", m.Database, m.Collection)
}

func documentsToTable(docs []bson.D) *table.Table {
	var header []string
	index := make(map[string]int)
	for _, doc := range docs {
		for _, e := range doc {
			if e.Key == "_id" {
				continue
			}
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(header)
				header = append(header, e.Key)
			}
		}
	}

	rows := make([][]string, len(docs))
	for i, doc := range docs {
		row := make([]string, len(header))
		for _, e := range doc {
			if j, ok := index[e.Key]; ok {
				row[j] = stringify(e.Value)
			}
		}
		rows[i] = row
	}
	return table.New(header, rows)
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339)
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Decimal128:
		return x.String()
	case bson.A:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
