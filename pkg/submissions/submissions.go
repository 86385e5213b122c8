// Package submissions keeps a log of cleaned form data in a sqlite database
// so reports can be produced after the form is gone.
package submissions

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vmihailenco/msgpack/v5"
	"xorm.io/xorm"
	"xorm.io/xorm/log"
	"xorm.io/xorm/names"
)

// ErrNotFound is returned by Get when no submission carries the ID.
var ErrNotFound = errors.New("submissions: not found")

// Submission is one stored set of cleaned values.
type Submission struct {
	// Submission ID (auto)
	ID int64 `xorm:"pk autoincr"`
	// Form type key the data was submitted to
	Form string `xorm:"index notnull"`
	// msgpack encoded cleaned data
	Payload []byte `xorm:"blob"`
	// Time the submission was stored
	Created time.Time `xorm:"created"`
}

// Data decodes the payload.
func (s *Submission) Data() (map[string]any, error) {
	return decode(s.Payload)
}

// Connection wraps the database engine.
type Connection struct {
	engine *xorm.Engine
}

// New returns a connection for the sqlite db file at path, creating the
// file and table when missing.
func New(path string) (*Connection, error) {
	engine, err := xorm.NewEngine("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("submissions: open %s: %w", path, err)
	}
	engine.Logger().SetLevel(log.LOG_WARNING)
	engine.SetMapper(names.GonicMapper{})

	if err := engine.Sync2(new(Submission)); err != nil {
		engine.Close()
		return nil, fmt.Errorf("submissions: sync schema: %w", err)
	}
	return &Connection{engine}, nil
}

// Close the database.
func (conn *Connection) Close() error {
	return conn.engine.Close()
}

// Record encodes data and stores it under the form key.
func (conn *Connection) Record(formKey string, data map[string]any) (*Submission, error) {
	payload, err := encode(data)
	if err != nil {
		return nil, err
	}
	sub := &Submission{Form: formKey, Payload: payload}
	if err := conn.Insert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Insert stores sub. On success sub carries its new ID.
func (conn *Connection) Insert(sub *Submission) error {
	if sub.Form == "" {
		return errors.New("submissions: form key is required")
	}
	if _, err := conn.engine.Insert(sub); err != nil {
		return fmt.Errorf("submissions: insert: %w", err)
	}
	return nil
}

// Get retrieves the submission with the given ID.
func (conn *Connection) Get(id int64) (*Submission, error) {
	sub := new(Submission)
	has, err := conn.engine.ID(id).Get(sub)
	if err != nil {
		return nil, fmt.Errorf("submissions: get %d: %w", id, err)
	}
	if !has {
		return nil, ErrNotFound
	}
	return sub, nil
}

// ForForm returns the submissions stored under formKey, oldest first.
func (conn *Connection) ForForm(formKey string) ([]Submission, error) {
	var subs []Submission
	if err := conn.engine.Where("form = ?", formKey).Asc("id").Find(&subs); err != nil {
		return nil, fmt.Errorf("submissions: list %s: %w", formKey, err)
	}
	return subs, nil
}

// All returns every stored submission, oldest first.
func (conn *Connection) All() ([]Submission, error) {
	var subs []Submission
	if err := conn.engine.Asc("id").Find(&subs); err != nil {
		return nil, fmt.Errorf("submissions: list: %w", err)
	}
	return subs, nil
}

func encode(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	packed, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("submissions: encode payload: %w", err)
	}
	return packed, nil
}

// Integers decode as int64 so values read back match the cleaned data.
func decode(packed []byte) (map[string]any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(packed))
	dec.UseLooseInterfaceDecoding(true)

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("submissions: decode payload: %w", err)
	}
	for key, value := range data {
		data[key] = normalise(value)
	}
	return data, nil
}

// normalise turns lists of strings back into []string, the shape produced
// by multiple choice inputs. Times are decoded in the local zone and are
// moved back to UTC, where cleaned dates live.
func normalise(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC()
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return normaliseList(v)
			}
			out = append(out, s)
		}
		return out
	default:
		return value
	}
}

func normaliseList(list []any) []any {
	for i, item := range list {
		list[i] = normalise(item)
	}
	return list
}
