package models

import (
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Feedback is the structured answer review. Older documents stored a plain
// string; those decode into Overall with the other fields empty.
type Feedback struct {
	Spoken       string `bson:"spoken" json:"spoken"`
	Strengths    string `bson:"strengths" json:"strengths"`
	Improvements string `bson:"improvements" json:"improvements"`
	Suggestion   string `bson:"suggestion" json:"suggestion"`
	Overall      string `bson:"overall" json:"overall"`
}

func LegacyFeedback(text string) Feedback {
	return Feedback{Overall: text}
}

func (f Feedback) IsEmpty() bool {
	return f == Feedback{}
}

func (f *Feedback) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = LegacyFeedback(text)
		return nil
	}
	type plain Feedback
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Feedback(p)
	return nil
}

func (f *Feedback) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*f = Feedback{}
		return nil
	case bsontype.String:
		text, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return errors.New("feedback: malformed string value")
		}
		*f = LegacyFeedback(text)
		return nil
	case bsontype.EmbeddedDocument:
		type plain Feedback
		var p plain
		if err := bson.Unmarshal(data, &p); err != nil {
			return err
		}
		*f = Feedback(p)
		return nil
	}
	return errors.New("feedback: unsupported bson type " + t.String())
}
