// Package msgq offers a durable per-registrar service message queue
// backing <poll> command handlers.
//
// RFC5730 delivers service messages through poll request/ack cycles: a
// request answers with the oldest queued message and the queue depth,
// an ack dequeues by message id.  Queue keeps one FIFO per registrar
// in a bbolt database; handlers answer poll requests with the
// Message's <msgQ> element and result code 1301, or 1300 when Front
// reports an empty queue.
package msgq

import (
	"encoding/binary"
	"encoding/json"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"
	bolt "go.etcd.io/bbolt"

	"github.com/provreg/epp/frame"
)

// Message is one queued service message.
type Message struct {
	// ID is the message identifier assigned at enqueue, echoed by the
	// client's poll ack.
	ID uint64 `json:"id"`
	// QDate is the enqueue time.
	QDate time.Time `json:"qDate"`
	// Msg is the human-readable message text.
	Msg string `json:"msg"`
	// Data is optional XML carried to the handler for the response
	// <resData>, serialized form.
	Data string `json:"data,omitempty"`
}

// Node returns the <msgQ> element announcing this message, with the
// given queue depth.
func (m Message) Node(count int) *xmlquery.Node {
	n := frame.Element("msgQ")
	n.Attr = append(n.Attr,
		xmlquery.Attr{Name: xml.Name{Local: "count"}, Value: strconv.Itoa(count)},
		xmlquery.Attr{Name: xml.Name{Local: "id"}, Value: strconv.FormatUint(m.ID, 10)},
	)
	xmlquery.AddChild(n, frame.TextElement("qDate", m.QDate.UTC().Format(time.RFC3339)))
	if m.Msg != "" {
		xmlquery.AddChild(n, frame.TextElement("msg", m.Msg))
	}
	return n
}

// Queue is a durable per-registrar message queue.
type Queue struct {
	db *bolt.DB
}

// Open creates or opens a queue database at the given path.
func Open(path string) (*Queue, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Queue{db: db}, nil
}

// Close closes the queue database.
func (q *Queue) Close() error { return q.db.Close() }

// Enqueue appends a message to clid's queue and returns it with its
// assigned ID and QDate populated.
func (q *Queue) Enqueue(clid string, m Message) (Message, error) {
	if m.QDate.IsZero() {
		m.QDate = time.Now().UTC()
	}
	err := q.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(clid))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		m.ID = seq
		val, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return b.Put(itob(seq), val)
	})
	return m, err
}

// Front returns the oldest message on clid's queue along with the
// queue depth.  An empty queue returns count 0 and no error.
func (q *Queue) Front(clid string) (m Message, count int, err error) {
	err = q.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(clid))
		if b == nil {
			return nil
		}
		count = b.Stats().KeyN
		if count == 0 {
			return nil
		}
		_, v := b.Cursor().First()
		return json.Unmarshal(v, &m)
	})
	return m, count, err
}

// Count returns the depth of clid's queue.
func (q *Queue) Count(clid string) (count int, err error) {
	err = q.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(clid)); b != nil {
			count = b.Stats().KeyN
		}
		return nil
	})
	return count, err
}

// Ack dequeues message id from clid's queue.  Acking an id not at or
// below the queue is harmless.
func (q *Queue) Ack(clid string, id uint64) error {
	return q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(clid))
		if b == nil {
			return nil
		}
		return b.Delete(itob(id))
	})
}

func itob(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
