package types

import (
	"fmt"
)

// Catalog is the ordered set of configured streams of a connection
type Catalog struct {
	Streams []*ConfiguredStream `json:"streams"`
}

func NewCatalog(streams ...*ConfiguredStream) *Catalog {
	if streams == nil {
		streams = []*ConfiguredStream{}
	}
	return &Catalog{Streams: streams}
}

// Validate checks that stream descriptors are unique
func (c *Catalog) Validate() error {
	seen := NewSet[StreamDescriptor]()
	for _, stream := range c.Streams {
		if stream == nil || stream.Stream == nil {
			return fmt.Errorf("catalog contains a stream without a definition")
		}
		if seen.Exists(stream.Descriptor()) {
			return fmt.Errorf("duplicate stream [%s] in catalog", stream.ID())
		}
		seen.Insert(stream.Descriptor())
	}
	return nil
}

func (c *Catalog) Descriptors() []StreamDescriptor {
	descriptors := make([]StreamDescriptor, 0, len(c.Streams))
	for _, stream := range c.Streams {
		descriptors = append(descriptors, stream.Descriptor())
	}
	return descriptors
}

// StreamsToMap indexes configured streams by descriptor
func (c *Catalog) StreamsToMap() map[StreamDescriptor]*ConfiguredStream {
	out := make(map[StreamDescriptor]*ConfiguredStream, len(c.Streams))
	for _, stream := range c.Streams {
		out[stream.Descriptor()] = stream
	}
	return out
}

func (c *Catalog) Clone() *Catalog {
	clone := NewCatalog()
	for _, stream := range c.Streams {
		clone.Streams = append(clone.Streams, stream.Clone())
	}
	return clone
}
