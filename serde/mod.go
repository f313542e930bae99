// Package serde defines the primitives to serialize and deserialize (serde)
// the messages and state records of the module.
//
// A message implementation registers a format engine for each of the formats
// it supports, and the serialization context decides which format is used at
// runtime.
package serde

// Message is the interface a data model should implement to be serialized
// and deserialized.
type Message interface {
	// Serialize returns the byte representation of the message in the format
	// of the given context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface to implement to instantiate a data model from its
// serialized form.
type Factory interface {
	// Deserialize returns the message associated to the data, or an error if
	// the data is malformed for the format of the context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// Format is the identifier of a serialization format.
type Format string

const (
	// FormatJSON is the identifier of the JSON format.
	FormatJSON Format = "JSON"
)

// FormatEngine is the interface to implement to encode and decode a specific
// message type in a specific format.
type FormatEngine interface {
	// Encode returns the serialized data of the message.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message associated to the data.
	Decode(ctx Context, data []byte) (Message, error)
}
