package dto

import (
	"bytes"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is a schema-less record as returned by GET /items. Fields, and
// those of nested documents, are written in stored order. Its "_id" is
// always a string.
type Document bson.D

func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, bson.D(d)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch v := v.(type) {
	case bson.D:
		return writeObject(buf, v)
	case Document:
		return writeObject(buf, bson.D(v))
	case bson.A:
		return writeArray(buf, v)
	case []interface{}:
		return writeArray(buf, v)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeObject(buf *bytes.Buffer, d bson.D) error {
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(buf, e.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, a []interface{}) error {
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}
